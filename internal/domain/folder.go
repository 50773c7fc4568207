package domain

import (
	"sort"
	"time"
)

// Folder is a node in the bookmark folder forest. ParentID is nil for
// root folders. The parent relation must never form a cycle; writes are
// guarded by WouldCreateCycle before they reach the store.
type Folder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Denormalized counts, populated by list queries.
	BookmarkCount  int `json:"bookmark_count"`
	SubfolderCount int `json:"subfolder_count"`
}

// Touch updates the UpdatedAt timestamp.
func (f *Folder) Touch() {
	f.UpdatedAt = time.Now().UTC()
}

// FolderNode is a folder with its nested children, as returned by the
// tree endpoint. Children are ordered alphabetically by name.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
}

// WouldCreateCycle reports whether reparenting folderID under newParentID
// would make the folder its own ancestor. parents maps folder ID to
// parent ID; root folders are absent (or mapped to nil).
//
// The walk is iterative: start at newParentID and follow parent pointers
// upward until the chain ends or folderID is found. A step counter bounds
// the loop so the check terminates even if the stored forest is corrupt.
func WouldCreateCycle(parents map[string]*string, folderID, newParentID string) bool {
	current := newParentID
	for steps := 0; steps <= len(parents); steps++ {
		if current == folderID {
			return true
		}
		p, ok := parents[current]
		if !ok || p == nil {
			return false
		}
		current = *p
	}
	// Walked more nodes than exist: the stored chain already loops.
	return true
}

// BuildFolderTree assembles the folder forest from a flat folder list.
// Roots are folders with no parent (or whose parent is not in the list).
// Children are sorted by name at every level. Bookmark counts ride along
// on the Folder embedded in each node.
func BuildFolderTree(folders []*Folder) []*FolderNode {
	nodes := make(map[string]*FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &FolderNode{Folder: *f, Children: []*FolderNode{}}
	}

	var roots []*FolderNode
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID != nil {
			if parent, ok := nodes[*f.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortChildren func(ns []*FolderNode)
	sortChildren = func(ns []*FolderNode) {
		sort.Slice(ns, func(i, j int) bool { return ns[i].Name < ns[j].Name })
		for _, n := range ns {
			sortChildren(n.Children)
		}
	}
	sortChildren(roots)

	if roots == nil {
		roots = []*FolderNode{}
	}
	return roots
}
