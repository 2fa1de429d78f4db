// Package tree implements the virtual folder hierarchy that LinkStash
// emulates over flat record collections. A Node is one addressable
// filesystem object (a link or a folder); a listing is the set of Entry
// records sharing one location number; a folder owns exactly one listing.
// The root folder is node 1 and owns listing 1.
package tree

import (
	"github.com/anikulin/linkstash/internal/common"
)

// Kind discriminates link and folder records.
type Kind int16

const (
	KindLink   Kind = 1
	KindFolder Kind = 2
)

// Names reserved for the navigation entries every non-root folder listing
// carries: "." points at the folder's own node, ".." at its parent's.
const (
	NameSelf   = "."
	NameParent = ".."
)

// Node is one addressable filesystem object.
//
// For a link, Location is the listing of the containing folder. For a
// folder, Location is a freshly allocated listing number that the folder
// owns; it does not say where the folder sits. GroupID is 0 while the node
// is not yet attached to a group.
type Node struct {
	ID       int64
	Kind     Kind
	Owner    string
	GroupID  int64
	Location int64
}

// LinkContent is the payload arm of a link entry.
type LinkContent struct {
	URL   string   `json:"url"`
	Memo  string   `json:"memo"`
	Image string   `json:"image"`
	Tags  []string `json:"tags"`
}

// FolderContent is the payload arm of a folder entry.
type FolderContent struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Entry is one row inside a listing: either a navigation marker ("."/"..",
// both payload arms nil) or real content. Exactly one payload arm is set on
// a content entry, selected by Kind.
type Entry struct {
	Location int64
	Node     int64
	Name     string
	Kind     Kind
	Link     *LinkContent
	Folder   *FolderContent
}

// File is one item of a register call: the kind plus the user-supplied
// content fields.
type File struct {
	Kind    Kind
	Content Content
}

// Content carries the kind-specific fields of an entry in their
// wire shape. Folder entries use Name and Image; link entries use URL,
// Memo, Image and Tags.
type Content struct {
	Name  string   `json:"name,omitempty"`
	URL   string   `json:"url,omitempty"`
	Memo  string   `json:"memo,omitempty"`
	Image string   `json:"image,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Meta identifies an entry in a read result.
type Meta struct {
	Node    int64 `json:"snode"`
	Kind    Kind  `json:"type"`
	GroupID int64 `json:"gid"`
}

// FileView is one element of a read result.
type FileView struct {
	Meta    Meta    `json:"meta"`
	Content Content `json:"content"`
}

// NewFile builds the node and the content entry representing file inside
// the listing parentLocation. A folder node gets a freshly allocated
// listing of its own; a link lives in the parent's listing.
func NewFile(file File, parentLocation int64, owner string, groupID int64) (*Node, *Entry) {
	node := &Node{
		ID:      common.NewID(),
		Kind:    file.Kind,
		Owner:   owner,
		GroupID: groupID,
	}

	entry := &Entry{
		Location: parentLocation,
		Node:     node.ID,
		Kind:     file.Kind,
	}

	switch file.Kind {
	case KindFolder:
		node.Location = common.NewID()
		entry.Name = file.Content.Name
		entry.Folder = &FolderContent{Name: file.Content.Name, Image: file.Content.Image}
	case KindLink:
		node.Location = parentLocation
		entry.Link = &LinkContent{
			URL:   file.Content.URL,
			Memo:  file.Content.Memo,
			Image: file.Content.Image,
			Tags:  file.Content.Tags,
		}
	}

	return node, entry
}

// NavigationEntries builds the two bootstrap rows of a fresh folder
// listing: "." pointing at the folder itself and ".." at its parent.
func NavigationEntries(location, current, parent int64) []*Entry {
	return []*Entry{
		{Location: location, Node: current, Name: NameSelf, Kind: KindFolder},
		{Location: location, Node: parent, Name: NameParent, Kind: KindFolder},
	}
}

// RootNode returns the bootstrap root folder record: node 1 owning
// listing 1, held by group 1.
func RootNode() *Node {
	return &Node{
		ID:       common.RootNode,
		Kind:     KindFolder,
		Owner:    "linkstash",
		GroupID:  common.RootGroup,
		Location: common.RootLocation,
	}
}

// RootEntry returns the root listing's own "." bootstrap entry. The root
// has no parent and therefore no "..".
func RootEntry() *Entry {
	return &Entry{
		Location: common.RootLocation,
		Node:     common.RootNode,
		Name:     NameSelf,
		Kind:     KindFolder,
	}
}

// ContentView renders the kind-specific fields of e for a read result.
func (e *Entry) ContentView() Content {
	switch {
	case e.Link != nil:
		return Content{URL: e.Link.URL, Memo: e.Link.Memo, Image: e.Link.Image, Tags: e.Link.Tags}
	case e.Folder != nil:
		return Content{Name: e.Folder.Name, Image: e.Folder.Image}
	default:
		return Content{Name: e.Name}
	}
}

// IsNavigation reports whether e is a "." or ".." marker.
func (e *Entry) IsNavigation() bool {
	return e.Name == NameSelf || e.Name == NameParent
}
