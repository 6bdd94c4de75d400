// Package bot turns inbound chat messages into task store operations and
// replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/taskbot/internal/db"
	"github.com/tgienger/taskbot/internal/format"
	"github.com/tgienger/taskbot/internal/models"
	"github.com/tgienger/taskbot/internal/query"
	"github.com/tgienger/taskbot/internal/session"
)

// Store is the task store used by the dispatcher
type Store interface {
	query.Store
	CreateUser(ctx context.Context, u models.User) (bool, error)
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	CreateTask(ctx context.Context, userID int64, text string, at time.Time) (*models.Task, error)
	GetTask(ctx context.Context, userID, id int64) (*models.Task, error)
	UpdateTaskText(ctx context.Context, userID, id int64, text string, at time.Time) error
	UpdateTaskStatus(ctx context.Context, userID, id int64, status models.Status, at time.Time) error
	DeleteTask(ctx context.Context, userID, id int64) error
}

// Options configures a Dispatcher. Zero values select defaults.
type Options struct {
	Location *time.Location
	PageSize int
	Now      func() time.Time
	Logger   *slog.Logger
	Edits    *session.Edits
}

// Dispatcher handles one inbound message at a time per conversation. Callers
// must serialize messages of the same chat, see Router.
type Dispatcher struct {
	store    Store
	engine   *query.Engine
	edits    *session.Edits
	loc      *time.Location
	pageSize int
	now      func() time.Time
	log      *slog.Logger
}

// NewDispatcher creates a dispatcher backed by store
func NewDispatcher(store Store, opts Options) *Dispatcher {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.PageSize < 1 {
		opts.PageSize = format.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Edits == nil {
		opts.Edits = session.NewEdits()
	}
	return &Dispatcher{
		store:    store,
		engine:   query.NewEngine(store, opts.Location, opts.Now),
		edits:    opts.Edits,
		loc:      opts.Location,
		pageSize: opts.PageSize,
		now:      opts.Now,
		log:      opts.Logger,
	}
}

// request carries the state of handling one inbound message
type request struct {
	ctx context.Context
	msg models.Inbound
	log *slog.Logger
}

func (r *request) reply(text string) []models.Outbound {
	return []models.Outbound{{ChatID: r.msg.ChatID, Text: text}}
}

func (r *request) askContact(text string) []models.Outbound {
	return []models.Outbound{{ChatID: r.msg.ChatID, Text: text, RequestContact: true}}
}

// Handle processes one inbound message and returns the replies to send, in
// order. It never panics; failures are reported to the user.
func (d *Dispatcher) Handle(ctx context.Context, msg models.Inbound) (out []models.Outbound) {
	if msg.RequestID == "" {
		msg.RequestID = uuid.NewString()[:8]
	}
	r := &request{
		ctx: ctx,
		msg: msg,
		log: d.log.With("request_id", msg.RequestID, "chat_id", msg.ChatID, "user_id", msg.UserID),
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("handler panic", "panic", p)
			out = r.reply(msgFailure)
		}
	}()

	if msg.Contact != nil {
		return d.handleContact(r)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	cmd, isCmd := ParseCommand(text)

	// A pending edit consumes the next message. Another edit command replaces
	// it; any other command cancels it and is not run.
	if taskID, ok := d.edits.Take(msg.ChatID); ok {
		switch {
		case !isCmd:
			return d.applyEdit(r, taskID, text)
		case cmd.Kind != CmdEdit:
			r.log.Info("pending edit abandoned", "task_id", taskID, "command", cmd.Name)
			return r.reply(msgEditCancelled(taskID))
		}
	}

	if !isCmd {
		return d.createTask(r, text)
	}

	r.log.Debug("command", "name", cmd.Name)
	switch cmd.Kind {
	case CmdStart:
		return d.start(r)
	case CmdHelp:
		return r.reply(helpText())
	case CmdUnknown:
		return r.reply(msgUnknown)
	}

	user, resp := d.requireUser(r)
	if user == nil {
		return resp
	}

	switch cmd.Kind {
	case CmdEdit:
		return d.beginEdit(r, user, cmd.TaskID)
	case CmdSetStatus:
		return d.setStatus(r, user, cmd.TaskID, cmd.Status)
	case CmdRemove:
		return d.remove(r, user, cmd.TaskID)
	case CmdActual:
		return d.listActual(r, user)
	case CmdPeriod:
		return d.listPeriod(r, user, cmd.Period)
	}
	return r.reply(msgUnknown)
}

func (d *Dispatcher) start(r *request) []models.Outbound {
	_, err := d.store.GetUser(r.ctx, r.msg.UserID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return r.askContact(msgAskContact)
	case err != nil:
		return d.failure(r, "get user", err)
	}
	return r.reply(msgWelcomeBack)
}

func (d *Dispatcher) handleContact(r *request) []models.Outbound {
	c := r.msg.Contact
	if c.UserID != 0 && c.UserID != r.msg.UserID {
		return r.askContact(msgForeignContact)
	}

	created, err := d.store.CreateUser(r.ctx, models.User{
		TelegramID: r.msg.UserID,
		ChatID:     r.msg.ChatID,
		Name:       strings.TrimSpace(c.FirstName),
		Phone:      strings.TrimSpace(c.Phone),
		CreatedAt:  d.now(),
	})
	if err != nil {
		return d.failure(r, "create user", err)
	}
	if !created {
		return r.reply(msgAlreadyKnown)
	}
	r.log.Info("user registered")
	return r.reply(msgRegistered)
}

// requireUser loads the sender. A nil user comes with the replies to send.
func (d *Dispatcher) requireUser(r *request) (*models.User, []models.Outbound) {
	user, err := d.store.GetUser(r.ctx, r.msg.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, r.askContact(msgUnregistered)
	}
	if err != nil {
		return nil, d.failure(r, "get user", err)
	}
	return user, nil
}

func (d *Dispatcher) createTask(r *request, text string) []models.Outbound {
	user, resp := d.requireUser(r)
	if user == nil {
		return resp
	}
	task, err := d.store.CreateTask(r.ctx, user.TelegramID, text, d.stamp())
	if err != nil {
		return d.failure(r, "create task", err)
	}
	r.log.Info("task created", "task_id", task.ID)
	return r.reply(msgTaskAdded(task.ID))
}

func (d *Dispatcher) beginEdit(r *request, user *models.User, taskID int64) []models.Outbound {
	if _, err := d.store.GetTask(r.ctx, user.TelegramID, taskID); err != nil {
		return d.taskError(r, "get task", taskID, err)
	}
	d.edits.Begin(r.msg.ChatID, taskID)
	return r.reply(msgEditPrompt(taskID))
}

func (d *Dispatcher) applyEdit(r *request, taskID int64, text string) []models.Outbound {
	if err := d.store.UpdateTaskText(r.ctx, r.msg.UserID, taskID, text, d.stamp()); err != nil {
		return d.taskError(r, "update task text", taskID, err)
	}
	r.log.Info("task edited", "task_id", taskID)
	return r.reply(msgEdited(taskID))
}

func (d *Dispatcher) setStatus(r *request, user *models.User, taskID int64, status models.Status) []models.Outbound {
	if err := d.store.UpdateTaskStatus(r.ctx, user.TelegramID, taskID, status, d.stamp()); err != nil {
		return d.taskError(r, "update task status", taskID, err)
	}
	r.log.Info("task status changed", "task_id", taskID, "status", status.String())
	return r.reply(msgStatusChanged(taskID, status))
}

func (d *Dispatcher) remove(r *request, user *models.User, taskID int64) []models.Outbound {
	if err := d.store.DeleteTask(r.ctx, user.TelegramID, taskID); err != nil {
		return d.taskError(r, "delete task", taskID, err)
	}
	r.log.Info("task removed", "task_id", taskID)
	return r.reply(msgRemoved(taskID))
}

func (d *Dispatcher) listActual(r *request, user *models.User) []models.Outbound {
	tasks, err := d.engine.Actual(r.ctx, user.TelegramID)
	if err != nil {
		return d.failure(r, "list actual tasks", err)
	}
	if len(tasks) == 0 {
		return r.reply(msgNoTasks)
	}
	return append(r.reply(actualHeader(len(tasks))), d.pages(r, tasks)...)
}

func (d *Dispatcher) listPeriod(r *request, user *models.User, name string) []models.Outbound {
	tasks, iv, ok, err := d.engine.ForPeriod(r.ctx, user.TelegramID, name)
	if err != nil {
		return d.failure(r, "list period tasks", err)
	}
	if !ok || len(tasks) == 0 {
		return r.reply(msgNoPeriodTasks)
	}
	return append(r.reply(periodHeader(name, iv, len(tasks))), d.pages(r, tasks)...)
}

func (d *Dispatcher) pages(r *request, tasks []models.Task) []models.Outbound {
	chunks := format.Paginate(format.RenderTasks(tasks, d.loc), d.pageSize)
	out := make([]models.Outbound, len(chunks))
	for i, c := range chunks {
		out[i] = models.Outbound{ChatID: r.msg.ChatID, Text: c}
	}
	return out
}

// taskError reports a failed operation on a single task
func (d *Dispatcher) taskError(r *request, op string, taskID int64, err error) []models.Outbound {
	if errors.Is(err, db.ErrNotFound) {
		r.log.Info("task not found", "op", op, "task_id", taskID)
		return r.reply(msgNotFound(taskID))
	}
	return d.failure(r, fmt.Sprintf("%s %d", op, taskID), err)
}

func (d *Dispatcher) failure(r *request, op string, err error) []models.Outbound {
	r.log.Error("store failure", "op", op, "error", err)
	return r.reply(msgFailure)
}

// stamp returns the current time at the store's millisecond precision
func (d *Dispatcher) stamp() time.Time {
	return d.now().Truncate(time.Millisecond)
}
