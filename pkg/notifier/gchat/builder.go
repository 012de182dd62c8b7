package gchat

// CardBuilder assembles a single-card Message. Widgets are added to the most
// recently added section; adding a widget before any section creates an
// untitled one.
type CardBuilder struct {
	cardID   string
	header   *CardHeader
	sections []Section
}

// NewCardBuilder returns an empty builder.
func NewCardBuilder() *CardBuilder {
	return &CardBuilder{}
}

// SetCardID sets the card identifier.
func (b *CardBuilder) SetCardID(id string) *CardBuilder {
	b.cardID = id
	return b
}

// SetHeader sets the card header.
func (b *CardBuilder) SetHeader(h CardHeader) *CardBuilder {
	b.header = &h
	return b
}

// AddSection starts a new section. An empty title renders no header.
func (b *CardBuilder) AddSection(title string) *CardBuilder {
	b.sections = append(b.sections, Section{Header: title, Widgets: []Widget{}})
	return b
}

// Section adds a titled section holding a single paragraph.
func (b *CardBuilder) Section(title, text string) *CardBuilder {
	return b.AddSection(title).AddTextParagraph(text)
}

// AddDecoratedText appends a decorated text widget to the current section.
func (b *CardBuilder) AddDecoratedText(d DecoratedText) *CardBuilder {
	return b.addWidget(Widget{DecoratedText: &d})
}

// AddTextParagraph appends a paragraph to the current section.
func (b *CardBuilder) AddTextParagraph(text string) *CardBuilder {
	return b.addWidget(Widget{TextParagraph: &TextParagraph{Text: text}})
}

// AddButton appends a link button to the current section.
func (b *CardBuilder) AddButton(text, url string) *CardBuilder {
	return b.addWidget(Widget{ButtonList: &ButtonList{Buttons: []Button{{
		Text:    text,
		OnClick: &OnClick{OpenLink: &OpenLink{URL: url}},
	}}}})
}

func (b *CardBuilder) addWidget(w Widget) *CardBuilder {
	if len(b.sections) == 0 {
		b.AddSection("")
	}
	last := &b.sections[len(b.sections)-1]
	last.Widgets = append(last.Widgets, w)
	return b
}

// Build returns the message. The builder can keep being used afterwards
// without affecting the returned value.
func (b *CardBuilder) Build() Message {
	sections := make([]Section, len(b.sections))
	for i, s := range b.sections {
		s.Widgets = append([]Widget(nil), s.Widgets...)
		if s.Widgets == nil {
			s.Widgets = []Widget{}
		}
		sections[i] = s
	}

	card := Card{Sections: sections}
	if b.header != nil {
		h := *b.header
		card.Header = &h
	}
	return Message{CardsV2: []CardWithID{{CardID: b.cardID, Card: card}}}
}
