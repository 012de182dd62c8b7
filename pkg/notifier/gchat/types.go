package gchat

// Message is a Google Chat webhook message carrying cardsV2.
// See https://developers.google.com/workspace/chat/api/reference/rest/v1/cards
type Message struct {
	CardsV2 []CardWithID `json:"cardsV2"`
}

type CardWithID struct {
	CardID string `json:"cardId,omitempty"`
	Card   Card   `json:"card"`
}

type Card struct {
	Header   *CardHeader `json:"header,omitempty"`
	Sections []Section   `json:"sections"`
}

type CardHeader struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	ImageType string `json:"imageType,omitempty"`
}

type Section struct {
	Header                    string   `json:"header,omitempty"`
	Widgets                   []Widget `json:"widgets"`
	Collapsible               bool     `json:"collapsible,omitempty"`
	UncollapsibleWidgetsCount int      `json:"uncollapsibleWidgetsCount,omitempty"`
}

// Widget holds exactly one of its fields.
type Widget struct {
	TextParagraph *TextParagraph `json:"textParagraph,omitempty"`
	DecoratedText *DecoratedText `json:"decoratedText,omitempty"`
	ButtonList    *ButtonList    `json:"buttonList,omitempty"`
}

type TextParagraph struct {
	Text string `json:"text"`
}

type DecoratedText struct {
	TopLabel    string  `json:"topLabel,omitempty"`
	Text        string  `json:"text"`
	BottomLabel string  `json:"bottomLabel,omitempty"`
	StartIcon   *Icon   `json:"startIcon,omitempty"`
	Button      *Button `json:"button,omitempty"`
}

type Icon struct {
	KnownIcon string `json:"knownIcon,omitempty"`
	IconURL   string `json:"iconUrl,omitempty"`
	AltText   string `json:"altText,omitempty"`
}

type ButtonList struct {
	Buttons []Button `json:"buttons"`
}

type Button struct {
	Text    string   `json:"text,omitempty"`
	OnClick *OnClick `json:"onClick,omitempty"`
}

type OnClick struct {
	OpenLink *OpenLink `json:"openLink,omitempty"`
}

type OpenLink struct {
	URL string `json:"url"`
}
