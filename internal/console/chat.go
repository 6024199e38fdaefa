package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/calc"
	"fleetadmin/internal/console/ui"
	"fleetadmin/internal/model"
)

// Chat actions.
const (
	ActSend   = "send"
	ActStatus = "status"
)

var ChatStatuses = []string{model.ChatActive, model.ChatPending, model.ChatResolved}

type MessageView struct {
	Text   string
	Author string
	Time   string
	Agent  bool
}

type ChatView struct {
	State       string
	Error       string
	Query       string
	Status      string
	Statuses    []Option
	Threads     []CardView
	Selected    *CardView
	Messages    []MessageView
	ThreadState string
	ThreadError string
	SendError   string
	Sending     bool
}

// ChatPage lists support threads and lets an agent answer one.
type ChatPage struct {
	client *apiclient.Client
	res    *apiclient.Resource[model.ChatThread]

	mu        sync.Mutex
	gen       uint64
	state     LoadState
	err       string
	threads   []model.ChatThread
	query     string
	status    string
	thread    *model.ChatThread
	tstate    LoadState
	terr      string
	sendErr   string
	sending   bool
	threadGen uint64
}

func NewChatPage(client *apiclient.Client) *ChatPage {
	return &ChatPage{client: client, res: apiclient.NewResource[model.ChatThread](client, "chats"), status: "all"}
}

func (p *ChatPage) Enter(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	p.threadGen++
	gen := p.gen
	p.state = StateLoading
	p.err = ""
	p.thread = nil
	p.tstate = StateIdle
	p.mu.Unlock()
	return p.load(ctx, gen)
}

func (p *ChatPage) load(ctx context.Context, gen uint64) error {
	threads, err := p.res.List(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	if err != nil {
		p.state = StateFailed
		p.err = apiclient.ErrorMessage(err)
		return err
	}
	p.threads = threads
	p.state = StateReady
	return nil
}

func (p *ChatPage) Leave() {
	p.mu.Lock()
	p.gen++
	p.threadGen++
	p.mu.Unlock()
}

func (p *ChatPage) open(ctx context.Context, id string) error {
	p.mu.Lock()
	p.threadGen++
	gen := p.threadGen
	p.tstate = StateLoading
	p.terr = ""
	p.sendErr = ""
	p.mu.Unlock()

	thread, err := p.res.Get(ctx, id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.threadGen {
		return nil
	}
	if err != nil {
		p.tstate = StateFailed
		p.terr = apiclient.ErrorMessage(err)
		return err
	}
	p.thread = thread
	p.tstate = StateReady
	for i := range p.threads {
		if p.threads[i].ID == thread.ID {
			p.threads[i].Unread = 0
		}
	}
	return nil
}

func (p *ChatPage) selectedID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.thread == nil {
		return ""
	}
	return p.thread.ID.String()
}

// send posts an agent reply and reloads the thread.
func (p *ChatPage) send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("message is empty")
	}
	id := p.selectedID()
	if id == "" {
		return errors.New("no conversation selected")
	}
	p.mu.Lock()
	if p.sending {
		p.mu.Unlock()
		return ErrBusy
	}
	p.sending = true
	p.sendErr = ""
	p.mu.Unlock()

	body := map[string]string{"text": text, "sender": model.SenderAgent}
	err := p.client.Do(ctx, http.MethodPost, p.res.Path()+"/"+url.PathEscape(id)+"/messages", nil, body, nil)

	p.mu.Lock()
	p.sending = false
	if err != nil {
		p.sendErr = apiclient.ErrorMessage(err)
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	return p.open(ctx, id)
}

func (p *ChatPage) setStatus(ctx context.Context, status string) error {
	id := p.selectedID()
	if id == "" {
		return errors.New("no conversation selected")
	}
	if _, err := p.res.Patch(ctx, id, "status", map[string]string{"status": status}); err != nil {
		p.mu.Lock()
		p.sendErr = apiclient.ErrorMessage(err)
		p.mu.Unlock()
		return err
	}
	p.mu.Lock()
	for i := range p.threads {
		if p.threads[i].ID.String() == id {
			p.threads[i].Status = status
		}
	}
	if p.thread != nil {
		p.thread.Status = status
	}
	p.mu.Unlock()
	return nil
}

func (p *ChatPage) Handle(ctx context.Context, a Action) error {
	switch a.Name {
	case ActSelect:
		return p.open(ctx, a.ID)
	case ActSearch:
		p.mu.Lock()
		p.query = a.Value
		p.mu.Unlock()
		return nil
	case ActFilter:
		p.mu.Lock()
		p.status = a.Value
		if p.status == "" {
			p.status = "all"
		}
		p.mu.Unlock()
		return nil
	case ActSend:
		return p.send(ctx, a.Value)
	case ActStatus:
		return p.setStatus(ctx, a.Value)
	case ActReload:
		return p.Enter(ctx)
	default:
		return ErrUnknownAction
	}
}

// threadEntity drives the shared in-memory filter for threads.
var threadEntity = &Entity[model.ChatThread]{
	ID: func(t model.ChatThread) string { return t.ID.String() },
	Search: func(t model.ChatThread) []string {
		return []string{t.CustomerName, t.CustomerPhone, t.Subject, t.LastMessage}
	},
	Category: func(t model.ChatThread) string { return t.Status },
}

func threadCard(t model.ChatThread) CardView {
	c := Card{Title: t.CustomerName, Subtitle: t.Subject, Status: t.Status, Lines: []string{t.LastMessage}}
	if t.Unread > 0 {
		c.Amount = itoa(int64(t.Unread)) + " unread"
	}
	return CardView{ID: t.ID.String(), Card: c, StatusClass: ui.StatusClass(t.Status)}
}

func (p *ChatPage) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	cv := &ChatView{
		State:       p.state.String(),
		Error:       p.err,
		Query:       p.query,
		Status:      p.status,
		Statuses:    append([]Option{{Value: "all", Label: "All"}}, Options(ChatStatuses...)...),
		ThreadState: p.tstate.String(),
		ThreadError: p.terr,
		SendError:   p.sendErr,
		Sending:     p.sending,
	}
	for _, t := range Filter(p.threads, threadEntity, p.query, p.status) {
		cv.Threads = append(cv.Threads, threadCard(t))
	}
	if p.thread != nil {
		sel := threadCard(*p.thread)
		cv.Selected = &sel
		for _, m := range p.thread.Messages {
			at := m.CreatedAt
			author := m.Author
			if author == "" {
				author = Humanize(m.Sender)
			}
			cv.Messages = append(cv.Messages, MessageView{
				Text:   m.Text,
				Author: author,
				Time:   calc.FormatDate(&at) + " " + at.Format("15:04"),
				Agent:  m.Sender == model.SenderAgent,
			})
		}
	}
	return PageView{Key: PageChat.String(), Title: PageChat.Label(), Kind: "chat", View: "list", Chat: cv}
}
