// Package menu assembles the flat upstream menu lists into a group tree.
package menu

import "encoding/json"

// RawGroup is a group row as returned by the upstream group list.
type RawGroup struct {
	GUID      string          `json:"guid"`
	Name      string          `json:"name"`
	Priority  json.RawMessage `json:"priority,omitempty"`
	ImageLink json.RawMessage `json:"imageLink,omitempty"`
	GroupList []RawGroup      `json:"groupList,omitempty"`
}

// RawItemRecord is an item list row. GUID is the guid of the owning group.
type RawItemRecord struct {
	GUID      string            `json:"guid"`
	ItemList  []json.RawMessage `json:"itemList,omitempty"`
	GoodsList []json.RawMessage `json:"goodsList,omitempty"`
}

// Raw holds the three normalized upstream lists for one shop.
type Raw struct {
	Groups      []RawGroup
	Items       []RawItemRecord
	Supplements []json.RawMessage
}

// Group is a node of the assembled menu tree.
type Group struct {
	GUID      string            `json:"guid"`
	Name      string            `json:"name"`
	Priority  json.RawMessage   `json:"priority,omitempty"`
	ImageLink json.RawMessage   `json:"imageLink,omitempty"`
	Subgroups []Group           `json:"subgroups"`
	Items     []json.RawMessage `json:"items"`
	Goods     []json.RawMessage `json:"goods"`
}

// AssembledMenu is the served and cached artifact.
type AssembledMenu struct {
	Tree        []Group           `json:"tree"`
	Supplements []json.RawMessage `json:"supplements"`
}
