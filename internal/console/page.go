package console

import (
	"context"
	"errors"
)

// ErrUnknownAction is returned by Handle for an action a page does not know.
var ErrUnknownAction = errors.New("unknown action")

// Page is one of the twelve console pages.
type Page interface {
	Enter(ctx context.Context) error
	Leave()
	Handle(ctx context.Context, a Action) error
	View() PageView
}

// Action is one user interaction dispatched to the current page.
type Action struct {
	Name   string
	ID     string
	Key    string
	Value  string
	Values Values
	File   *Attachment
}

// Action names understood by entity pages.
const (
	ActSelect        = "select"
	ActAdd           = "add"
	ActEdit          = "edit"
	ActBack          = "back"
	ActCancel        = "cancel"
	ActSet           = "set"
	ActSave          = "save"
	ActSearch        = "search"
	ActFilter        = "filter"
	ActTab           = "tab"
	ActDelete        = "delete"
	ActConfirmDelete = "confirm-delete"
	ActCancelDelete  = "cancel-delete"
	ActReload        = "reload"
)

// PageView is everything a renderer needs for the current page.
type PageView struct {
	Key       string
	Title     string
	Kind      string
	View      string
	List      *ListView
	Form      *FormView
	Details   *DetailsView
	Confirm   *ConfirmView
	Dashboard *DashboardView
	Chat      *ChatView
	Reports   *ReportsView
}

type ListView struct {
	State      string
	Error      string
	Query      string
	Category   string
	Categories []Option
	Cards      []CardView
	Singular   string
}

// Empty reports a loaded list with nothing passing the filters.
func (l *ListView) Empty() bool { return l.State == StateReady.String() && len(l.Cards) == 0 }

type CardView struct {
	ID string
	Card
	StatusClass string
}

type FormView struct {
	Title     string
	ID        string
	Creating  bool
	State     string
	Error     string
	SubmitErr string
	Busy      bool
	Sections  []SectionView
	Upload    bool
	FileName  string
	FileError string
	FormError string
}

type SectionView struct {
	Key    string
	Title  string
	Fields []FieldView
}

type FieldView struct {
	Key         string
	Label       string
	InputType   string
	Value       string
	Options     []Option
	Required    bool
	Locked      bool
	Disabled    bool
	Error       string
	Placeholder string
	Select      bool
	TextArea    bool
	Checkbox    bool
	Checked     bool
}

type DetailsView struct {
	ID     string
	Title  string
	State  string
	Error  string
	Card   CardView
	Tabs   []TabView
	Rows   []Row
	TabErr string
}

type TabView struct {
	Key    string
	Title  string
	Active bool
}

type ConfirmView struct {
	ID      string
	Message string
	Error   string
	Busy    bool
}
