package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"schoolboard/internal/validation"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// State of the composer
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
)

// sendForm carries the send preconditions through the validator
type sendForm struct {
	Message    string      `validate:"nonblank"`
	Recipients []Recipient `validate:"min=1"`
}

// Controller owns the messaging view state for one session
type Controller struct {
	service      Service
	historyLimit int
	loc          *time.Location

	mu            sync.Mutex
	state         State
	draft         string
	selectedGroup string
	recipients    []Recipient
	groups        []RecipientGroup
	history       []HistoryEntry
	templates     []Template
	dateFilter    *Day
	errMsg        string
	success       string
}

// NewController creates an idle controller. loc is the zone history dates
// are filtered and displayed in; nil means time.Local.
func NewController(service Service, historyLimit int, loc *time.Location) *Controller {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		service:      service,
		historyLimit: historyLimit,
		loc:          loc,
		state:        StateIdle,
	}
}

// Init loads recipient groups, history and templates. Each failure only sets
// the page error; the page stays usable.
func (c *Controller) Init(ctx context.Context) {
	groups, err := c.service.GetRecipientGroups(ctx)
	c.mu.Lock()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load recipient groups")
		c.errMsg = MsgGroupsFailed
	} else {
		c.groups = groups
	}
	c.mu.Unlock()

	c.loadHistory(ctx)

	templates, err := c.service.GetTemplates(ctx, "")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load message templates")
		return
	}
	c.mu.Lock()
	c.templates = templates
	c.mu.Unlock()
}

func (c *Controller) loadHistory(ctx context.Context) {
	history, err := c.service.GetMessageHistory(ctx, c.historyLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load message history")
		c.errMsg = MsgHistoryFailed
		return
	}
	c.history = history
}

// SelectGroup selects a group and replaces the recipients with its members.
// An unknown key selects nobody.
func (c *Controller) SelectGroup(groupType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedGroup = groupType
	c.recipients = nil
	for _, g := range c.groups {
		if g.GroupType == groupType {
			c.recipients = append([]Recipient(nil), g.Recipients...)
			break
		}
	}
}

func (c *Controller) SetDraft(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = message
}

// ApplyTemplate replaces the draft with a loaded template's content
func (c *Controller) ApplyTemplate(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.templates {
		if t.ID.String() == id {
			c.draft = t.Content
			return nil
		}
	}
	return ErrTemplateNotFound
}

// SetDateFilter sets or, with nil, clears the history day filter
func (c *Controller) SetDateFilter(day *Day) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if day == nil {
		c.dateFilter = nil
		return
	}
	d := *day
	c.dateFilter = &d
}

// Send posts the draft to the selected recipients. A second call while one
// is in flight returns ErrSendInProgress without any request. Blank drafts and
// empty recipient lists fail with a *ValidationError before any request.
func (c *Controller) Send(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateSending {
		c.mu.Unlock()
		return ErrSendInProgress
	}

	form := sendForm{Message: c.draft, Recipients: c.recipients}
	if verr := checkSend(form); verr != nil {
		c.errMsg = verr.Message
		c.mu.Unlock()
		return verr
	}

	c.state = StateSending
	c.errMsg = ""
	c.success = ""
	group := c.selectedGroup
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	if _, err := c.service.SendMessage(ctx, form.Message, form.Recipients, group); err != nil {
		log.Error().
			Err(err).
			Str("group", group).
			Int("recipients", len(form.Recipients)).
			Msg("Failed to send message")
		c.mu.Lock()
		c.errMsg = MsgSendFailed
		c.mu.Unlock()
		return fmt.Errorf("sending message: %w", err)
	}

	c.mu.Lock()
	c.success = MsgSent
	c.draft = ""
	c.mu.Unlock()

	c.loadHistory(ctx)
	return nil
}

func checkSend(form sendForm) *ValidationError {
	err := validation.Validate(form)
	if err == nil {
		return nil
	}
	if validation.HasTag(err, "Message", "nonblank") {
		return &ValidationError{Field: "message", Message: MsgEnterMessage}
	}
	if validation.HasTag(err, "Recipients", "min") {
		return &ValidationError{Field: "recipients", Message: MsgSelectRecipients}
	}
	return &ValidationError{Field: "", Message: err.Error()}
}

// IsValidation reports whether err is a client-side precondition failure
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// FilteredHistory is the history as currently filtered. It never changes the
// stored list.
func (c *Controller) FilteredHistory() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterHistory(c.history, c.dateFilter, c.loc)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Recipients() []Recipient {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Recipient(nil), c.recipients...)
}

// GroupOption is one entry of the group selector
type GroupOption struct {
	Value string
	Label string
	Count int
}

// HistoryRow is one render-ready history line
type HistoryRow struct {
	SID        string
	Date       string
	Ago        string
	To         string
	Body       string
	Status     string
	StatusTone string
	Direction  string
}

// View is the render-ready messaging page
type View struct {
	State         State
	Draft         string
	SelectedGroup string
	Groups        []GroupOption
	Recipients    []Recipient
	Templates     []Template
	History       []HistoryRow
	HistoryTotal  int
	DateFilter    string
	Error         string
	Success       string
}

// historyTimeLayout renders like "Mar 5, 2024 2:30 PM"
const historyTimeLayout = "Jan 2, 2006 3:04 PM"

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:         c.state,
		Draft:         c.draft,
		SelectedGroup: c.selectedGroup,
		Recipients:    append([]Recipient(nil), c.recipients...),
		Templates:     append([]Template(nil), c.templates...),
		HistoryTotal:  len(c.history),
		Error:         c.errMsg,
		Success:       c.success,
	}
	if c.dateFilter != nil {
		v.DateFilter = c.dateFilter.String()
	}

	v.Groups = make([]GroupOption, 0, len(c.groups))
	for _, g := range c.groups {
		v.Groups = append(v.Groups, GroupOption{
			Value: g.GroupType,
			Label: g.Label(),
			Count: len(g.Recipients),
		})
	}

	filtered := FilterHistory(c.history, c.dateFilter, c.loc)
	v.History = make([]HistoryRow, 0, len(filtered))
	for _, e := range filtered {
		row := HistoryRow{
			SID:        e.SID,
			To:         e.To,
			Body:       e.Body,
			Status:     e.Status,
			StatusTone: StatusTone(e.Status),
			Direction:  string(e.Direction),
		}
		if !e.DateSent.IsZero() {
			row.Date = e.DateSent.In(c.loc).Format(historyTimeLayout)
			row.Ago = humanize.Time(e.DateSent.Time)
		}
		v.History = append(v.History, row)
	}
	return v
}
