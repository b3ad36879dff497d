package page

import "strings"

// IdentifierKind classifies the string a visitor used to address a page.
type IdentifierKind string

const (
	// IdentifierAddress is a raw 20-byte contract address.
	IdentifierAddress IdentifierKind = "address"
	// IdentifierPageID is a 32-byte chain-derived page identifier.
	IdentifierPageID IdentifierKind = "pageId"
	// IdentifierReservedName is a human-readable reserved name.
	IdentifierReservedName IdentifierKind = "reservedName"
	// IdentifierInvalid is a hex-prefixed string of the wrong width.
	IdentifierInvalid IdentifierKind = "invalid"
)

// DetectIdentifierKind distinguishes the page address formats
// syntactically: identifiers are fixed-width and hex-prefixed, reserved
// names are anything without the prefix.
func DetectIdentifierKind(id string) IdentifierKind {
	if !strings.HasPrefix(id, "0x") {
		return IdentifierReservedName
	}
	switch len(id) - 2 {
	case 40:
		return IdentifierAddress
	case 64:
		return IdentifierPageID
	default:
		return IdentifierInvalid
	}
}

// ContentID strips the content-addressing scheme prefix from a stored
// asset reference. The second return is false when the reference is empty.
func ContentID(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	return strings.TrimPrefix(ref, "ipfs://"), true
}

// ContentRef renders a content id as the document-internal reference form.
func ContentRef(id string) string {
	return "ipfs://" + id
}
