package page

// Colors is the fixed five-key palette every page document carries. All
// keys are six-hex-digit colors and are always present; missing values are
// filled from the default palette.
type Colors struct {
	Background string `json:"background"`
	Card       string `json:"card"`
	CardText   string `json:"cardText"`
	Button     string `json:"button"`
	ButtonText string `json:"buttonText"`
}

// DefaultColors is the palette a page starts from.
func DefaultColors() Colors {
	return Colors{
		Background: "#10b77f",
		Card:       "#10b77f",
		CardText:   "#FFFFFF",
		Button:     "#489587",
		ButtonText: "#FFFFFF",
	}
}

// ApplyDefaults fills any absent key from the default palette.
func (c *Colors) ApplyDefaults() {
	def := DefaultColors()
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.Card == "" {
		c.Card = def.Card
	}
	if c.CardText == "" {
		c.CardText = def.CardText
	}
	if c.Button == "" {
		c.Button = def.Button
	}
	if c.ButtonText == "" {
		c.ButtonText = def.ButtonText
	}
}

// Document is the immutable page document uploaded to the content store.
// A new version (new content id) is created on every edit; only selected
// items are retained when it is serialized for publish.
type Document struct {
	ChainID         int64    `json:"chainId"`
	ContractAddress string   `json:"contractAddress"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Website         string   `json:"website,omitempty"`
	Icon            string   `json:"icon"`
	BackgroundImage string   `json:"backgroundImage,omitempty"`
	Colors          Colors   `json:"colors"`
	Items           ItemList `json:"items"`
}

// AssetContentIDs returns the content ids of the document's dependent
// assets (icon and background image), for garbage collection.
func (d *Document) AssetContentIDs() []string {
	var ids []string
	if id, ok := ContentID(d.Icon); ok {
		ids = append(ids, id)
	}
	if id, ok := ContentID(d.BackgroundImage); ok {
		ids = append(ids, id)
	}
	return ids
}
