package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/orderbot/internal/auth"
	"github.com/Skotchmaster/orderbot/internal/cart"
	"github.com/Skotchmaster/orderbot/internal/catalog"
	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/events"
	"github.com/Skotchmaster/orderbot/internal/logging"
	"github.com/Skotchmaster/orderbot/internal/orders"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, c orders.ClientDetails, lines []orders.LineItem) (int64, error)
}

type Exporter interface {
	Export(ctx context.Context, now time.Time) (*chat.Document, error)
}

type Deps struct {
	Catalog   catalog.Store
	Orders    OrderPlacer
	Stats     Exporter
	Events    events.Publisher
	AllowList auth.AllowList
	Locations domain.Locations
	Sessions  *SessionStore
	Now       func() time.Time
}

// Engine drives the order conversation for every chat.
type Engine struct {
	catalog   catalog.Store
	orders    OrderPlacer
	stats     Exporter
	events    events.Publisher
	allow     auth.AllowList
	locations domain.Locations
	sessions  *SessionStore
	now       func() time.Time
}

func NewEngine(d Deps) *Engine {
	e := &Engine{
		catalog:   d.Catalog,
		orders:    d.Orders,
		stats:     d.Stats,
		events:    d.Events,
		allow:     d.AllowList,
		locations: d.Locations,
		sessions:  d.Sessions,
		now:       d.Now,
	}
	if e.events == nil {
		e.events = events.NopPublisher{}
	}
	if len(e.locations) == 0 {
		e.locations = domain.DefaultLocations
	}
	if e.sessions == nil {
		e.sessions = NewSessionStore(0)
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

func (e *Engine) Sessions() *SessionStore {
	return e.sessions
}

// Handle processes one inbound event and returns the reply to send. The
// returned error classifies what went wrong (domain.ErrUnauthorized,
// ErrValidation, ErrPersistence, ErrNoData); the reply is always usable.
func (e *Engine) Handle(ctx context.Context, ev chat.Event) (*chat.Reply, error) {
	reply := &chat.Reply{}
	if err := e.allow.Check(ev.User); err != nil {
		reply.Add(chat.Text(auth.RejectionMessage))
		return reply, err
	}

	l := logging.FromContext(ctx).With("chat_id", ev.ChatID, "user_id", ev.User.ID)
	ctx = logging.IntoContext(ctx, l)

	now := e.now()
	sl := e.sessions.acquire(ev.ChatID, now)
	defer e.sessions.release(ev.ChatID, sl, now)

	err := e.dispatch(ctx, sl, ev, reply)
	if sl.session != nil {
		l.Debug("conversation_step", "state", sl.session.State.String())
	}
	return reply, err
}

func (e *Engine) dispatch(ctx context.Context, sl *slot, ev chat.Event, reply *chat.Reply) error {
	if ev.IsCallback() {
		action, _ := chat.ParseCallback(ev.Callback)
		switch action {
		case chat.ActionNewOrder:
			return e.startOrder(sl, ev.ChatID, reply)
		case chat.ActionCancel:
			return e.cancel(sl, reply)
		case chat.ActionExport:
			return e.exportStats(ctx, reply)
		}
	} else if cmd, ok := chat.Command(ev.Text); ok {
		switch cmd {
		case chat.CommandStart:
			reply.Add(mainMenu(msgWelcome + "\n" + promptMenu))
			return nil
		case chat.CommandNewOrder:
			return e.startOrder(sl, ev.ChatID, reply)
		case chat.CommandCancel:
			return e.cancel(sl, reply)
		case chat.CommandStats:
			return e.exportStats(ctx, reply)
		default:
			reply.Add(mainMenu(promptMenu))
			return fmt.Errorf("unknown command %q: %w", cmd, domain.ErrValidation)
		}
	}

	s := sl.session
	if s == nil {
		reply.Add(mainMenu(msgNoOrder + "\n" + promptMenu))
		return nil
	}

	switch s.State {
	case AwaitingName:
		return e.handleName(s, ev, reply)
	case AwaitingLocation:
		return e.handleLocation(ctx, s, ev, reply)
	case SelectingProducts:
		return e.handleSelection(ctx, sl, ev, reply)
	case AwaitingQuantity:
		return e.handleQuantity(s, ev, reply)
	default:
		sl.session = nil
		reply.Add(mainMenu(promptMenu))
		return fmt.Errorf("session in state %s: %w", s.State, domain.ErrValidation)
	}
}

// startOrder always begins from a clean session, discarding any unfinished
// order in this chat.
func (e *Engine) startOrder(sl *slot, chatID int64, reply *chat.Reply) error {
	sl.session = newSession(chatID)
	reply.Add(namePrompt())
	return nil
}

func (e *Engine) cancel(sl *slot, reply *chat.Reply) error {
	sl.session = nil
	reply.Add(mainMenu(msgCancelled + "\n" + promptMenu))
	return nil
}

// parseCustomer splits "Name @handle" into its parts. The handle is
// normalized to a single leading "@"; a bare "@" means no handle.
func parseCustomer(text string) (name, handle string) {
	name, rest, found := strings.Cut(text, "@")
	name = strings.TrimSpace(name)
	if !found {
		return name, ""
	}
	rest = strings.TrimLeft(strings.TrimSpace(rest), "@")
	if rest == "" {
		return name, ""
	}
	return name, "@" + rest
}

func (e *Engine) handleName(s *Session, ev chat.Event, reply *chat.Reply) error {
	if ev.IsCallback() {
		reply.Add(namePrompt())
		return fmt.Errorf("expected customer name, got callback: %w", domain.ErrValidation)
	}

	name, handle := parseCustomer(ev.Text)
	if name == "" {
		reply.Add(chat.Text(msgEmptyName)).Add(namePrompt())
		return fmt.Errorf("empty customer name: %w", domain.ErrValidation)
	}

	s.Name, s.Handle = name, handle
	s.State = AwaitingLocation
	reply.Add(locationMenu(e.locations))
	return nil
}

func (e *Engine) handleLocation(ctx context.Context, s *Session, ev chat.Event, reply *chat.Reply) error {
	raw := ev.Text
	if ev.IsCallback() {
		action, arg := chat.ParseCallback(ev.Callback)
		if action != chat.ActionLocation {
			reply.Add(locationMenu(e.locations))
			return fmt.Errorf("expected location, got %q: %w", ev.Callback, domain.ErrValidation)
		}
		raw = arg
	}

	loc, err := e.locations.Parse(raw)
	if err != nil {
		reply.Add(locationMenu(e.locations))
		return err
	}

	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_failed", "operation", "list_products", "error", err)
		reply.Add(chat.Text(msgLoadFailed)).Add(locationMenu(e.locations))
		return err
	}

	s.Location = loc
	s.Catalog = products
	s.Cart = cart.New()
	s.State = SelectingProducts
	reply.Add(productMenu(s))
	return nil
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad product id %q: %w", arg, domain.ErrValidation)
	}
	return id, nil
}

func (e *Engine) handleSelection(ctx context.Context, sl *slot, ev chat.Event, reply *chat.Reply) error {
	s := sl.session
	if !ev.IsCallback() {
		reply.Add(chat.Text(msgUnknownInput)).Add(productMenu(s))
		return fmt.Errorf("expected product selection: %w", domain.ErrValidation)
	}

	action, arg := chat.ParseCallback(ev.Callback)
	if action == chat.ActionConfirm {
		return e.confirm(ctx, sl, reply)
	}

	switch action {
	case chat.ActionProduct, chat.ActionInc, chat.ActionDec:
	default:
		reply.Add(chat.Text(msgUnknownInput)).Add(productMenu(s))
		return fmt.Errorf("unknown action %q: %w", action, domain.ErrValidation)
	}

	id, err := parseProductID(arg)
	if err != nil {
		reply.Add(productMenu(s))
		return err
	}
	p, ok := s.product(id)
	if !ok {
		reply.Add(productMenu(s))
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}

	switch action {
	case chat.ActionProduct:
		s.PendingProductID = p.ID
		s.State = AwaitingQuantity
		reply.Add(quantityPrompt(p))
	case chat.ActionInc:
		s.Cart.Increment(p)
		reply.Add(productMenu(s))
	case chat.ActionDec:
		s.Cart.Decrement(p.ID)
		reply.Add(productMenu(s))
	}
	return nil
}

func (e *Engine) handleQuantity(s *Session, ev chat.Event, reply *chat.Reply) error {
	p, ok := s.product(s.PendingProductID)
	if !ok {
		missing := s.PendingProductID
		s.PendingProductID = 0
		s.State = SelectingProducts
		reply.Add(productMenu(s))
		return fmt.Errorf("pending product %d: %w", missing, domain.ErrNotFound)
	}

	if ev.IsCallback() {
		reply.Add(quantityPrompt(p))
		return fmt.Errorf("expected quantity, got callback: %w", domain.ErrValidation)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || qty <= 0 {
		reply.Add(chat.Text(msgBadNumber)).Add(quantityPrompt(p))
		return fmt.Errorf("quantity %q: %w", ev.Text, domain.ErrValidation)
	}

	if err := s.Cart.SetQuantity(p, qty); err != nil {
		reply.Add(quantityPrompt(p))
		return err
	}
	s.PendingProductID = 0
	s.State = SelectingProducts
	reply.Add(productMenu(s))
	return nil
}

// confirm persists the cart. The session survives any failure so the user can
// retry; it is cleared only after the order is committed.
func (e *Engine) confirm(ctx context.Context, sl *slot, reply *chat.Reply) error {
	s := sl.session
	l := logging.FromContext(ctx)

	if s.Cart.IsEmpty() {
		reply.Add(chat.Text(msgEmptyCart)).Add(productMenu(s))
		return domain.ErrEmptyCart
	}

	cartLines := s.Cart.Lines()
	items := make([]orders.LineItem, 0, len(cartLines))
	evLines := make([]events.OrderLine, 0, len(cartLines))
	for _, line := range cartLines {
		items = append(items, orders.LineItem{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
		evLines = append(evLines, events.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	clientID, err := e.orders.PlaceOrder(ctx, orders.ClientDetails{Name: s.Name, Handle: s.Handle, Location: s.Location}, items)
	if err != nil {
		l.Error("place_order_failed", "operation", "place_order", "lines", len(items), "error", err)
		reply.Add(chat.Text(msgSaveFailed)).Add(productMenu(s))
		return err
	}

	total := s.Cart.Total()
	l.Info("order_confirmed", "client_id", clientID, "lines", len(items), "total", total.StringFixed(2))

	ev := events.NewOrderConfirmed(s.ChatID, clientID, s.Name, string(s.Location), evLines, total, e.now())
	if err := e.events.PublishOrderConfirmed(ctx, ev); err != nil {
		l.Warn("publish_order_confirmed_failed", "client_id", clientID, "error", err)
	}

	reply.Add(chat.Text(confirmation(s))).Add(mainMenu(promptNext))
	sl.session = nil
	return nil
}

func (e *Engine) exportStats(ctx context.Context, reply *chat.Reply) error {
	doc, err := e.stats.Export(ctx, e.now())
	switch {
	case errors.Is(err, domain.ErrNoData):
		reply.Add(chat.Text(msgNoOrders))
		return err
	case err != nil:
		logging.FromContext(ctx).Error("export_statistics_failed", "operation", "export_statistics", "error", err)
		reply.Add(chat.Text(msgStatsFailed))
		return err
	}

	reply.Add(chat.Message{Document: doc})
	return nil
}

// LogOutcome logs a Handle result at a level matching its error class.
func LogOutcome(l *slog.Logger, ev chat.Event, err error) {
	attrs := []any{"chat_id", ev.ChatID, "user_id", ev.User.ID, "callback", ev.IsCallback()}
	switch {
	case err == nil:
		l.Info("chat_event_handled", attrs...)
	case errors.Is(err, domain.ErrUnauthorized):
		l.Warn("chat_event_unauthorized", attrs...)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoData):
		l.Info("chat_event_rejected", append(attrs, "reason", err.Error())...)
	default:
		l.Error("chat_event_failed", append(attrs, "error", err)...)
	}
}
