package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParentType is the kind of container a target document lives under.
// Values match the target platform's numeric codes.
type ParentType int

// Supported parent types.
const (
	ParentSpace      ParentType = 4
	ParentFolder     ParentType = 5
	ParentList       ParentType = 6
	ParentEverything ParentType = 7
	ParentWorkspace  ParentType = 12
)

// IsValid returns true if the parent type is one of the supported kinds.
func (p ParentType) IsValid() bool {
	switch p {
	case ParentSpace, ParentFolder, ParentList, ParentEverything, ParentWorkspace:
		return true
	default:
		return false
	}
}

// String returns a human-readable name for the parent type.
func (p ParentType) String() string {
	switch p {
	case ParentSpace:
		return "space"
	case ParentFolder:
		return "folder"
	case ParentList:
		return "list"
	case ParentEverything:
		return "everything"
	case ParentWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseParentType accepts a parent type name ("space") or numeric code ("4").
func ParseParentType(s string) (ParentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if p := ParentType(n); p.IsValid() {
			return p, nil
		}
		return 0, fmt.Errorf("%w: parent type %q", ErrInvalidInput, s)
	}
	for _, p := range []ParentType{ParentSpace, ParentFolder, ParentList, ParentEverything, ParentWorkspace} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: parent type %q", ErrInvalidInput, s)
}

// Parent identifies a container in the target store.
type Parent struct {
	ID   string
	Type ParentType
}

// TargetDocument is a destination document made of ordered pages.
type TargetDocument struct {
	// ID is the opaque identifier assigned by the target store.
	ID string

	// Name is the document title. Derived from the source date, so a
	// document for a given date is discoverable by name alone.
	Name string

	// Parent is the container the document lives under.
	Parent Parent

	// Pages is populated only when the caller asked for page contents.
	Pages []TargetPage
}

// PageRef is an entry of a document's page listing.
type PageRef struct {
	ID       string
	Name     string
	Position int
}

// TargetPage is a content-holding page within a target document.
// Position 0 is the default page the platform seeds at creation time.
type TargetPage struct {
	ID       string
	Name     string
	Content  string
	Position int
}

// DefaultPagePosition is the ordinal of the platform-seeded page.
// Every writer path targets this slot explicitly, never "the newest page".
const DefaultPagePosition = 0

// Marker written over a page that cannot be physically deleted.
const (
	NeutralizedPageName    = "Duplicate — see primary page"
	NeutralizedPageContent = " "
)

// ShellRequest describes a target document to create.
type ShellRequest struct {
	Parent  Parent
	Title   string
	Summary string

	// Body is submitted with the create call but the platform ignores it;
	// callers must still write the default page afterwards.
	Body string
}

// DefaultPage returns the page-0 entry of a listing.
func DefaultPage(pages []PageRef) (PageRef, bool) {
	if len(pages) == 0 {
		return PageRef{}, false
	}
	return pages[DefaultPagePosition], true
}
