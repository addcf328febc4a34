package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/assignment"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/kb"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/routing"
)

type memTicketRepo struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]domain.Ticket
	counts  []routing.RouteCount

	failCreate bool
	failUpdate bool
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{nextID: 1, tickets: map[int64]domain.Ticket{}}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if r.failCreate {
		return errors.New("create failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = r.nextID
	r.nextID++
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, id int64, update repository.TicketUpdate) (*domain.Ticket, error) {
	if r.failUpdate {
		return nil, errors.New("update failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	if update.AssigneeTeam != nil {
		ticket.AssigneeTeam = *update.AssigneeTeam
	}
	if update.AssigneeUser != nil {
		user := *update.AssigneeUser
		ticket.AssigneeUser = &user
	}
	r.tickets[id] = ticket
	return &ticket, nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &ticket, nil
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

func (r *memTicketRepo) CountRoutesByCategory(_ context.Context, _ domain.Category) ([]routing.RouteCount, error) {
	return r.counts, nil
}

type memKnowledgeRepo struct {
	mu       sync.Mutex
	nextID   int64
	articles []domain.KnowledgeArticle
	failList bool
}

func (r *memKnowledgeRepo) Create(_ context.Context, article *domain.KnowledgeArticle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	article.ID = r.nextID
	r.articles = append(r.articles, *article)
	return nil
}

func (r *memKnowledgeRepo) List(_ context.Context) ([]domain.KnowledgeArticle, error) {
	if r.failList {
		return nil, errors.New("list failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.KnowledgeArticle{}, r.articles...), nil
}

func (r *memKnowledgeRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.articles)), nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (rec *eventRecorder) subscribe(dispatcher events.Dispatcher, types ...events.EventType) {
	for _, t := range types {
		dispatcher.Subscribe(t, func(_ context.Context, event events.Event) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events = append(rec.events, event)
			return nil
		})
	}
}

func (rec *eventRecorder) all() []events.Event {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]events.Event{}, rec.events...)
}

func testRoster() domain.Roster {
	return domain.Roster{
		"ServiceDesk": {"alice@example.com", "bob@example.com"},
		"NetworkOps":  {"carol@example.com"},
	}
}

func newTestIntake(t *testing.T, tickets *memTicketRepo, articles *memKnowledgeRepo) (*IntakeService, *eventRecorder) {
	t.Helper()
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	recorder.subscribe(dispatcher, events.EventTicketCreated, events.EventTicketAssigned)

	if articles == nil {
		articles = &memKnowledgeRepo{}
	}
	seedKnowledge(t, articles)
	knowledge := NewKnowledgeService(articles, kb.NewEngine(), "", logger)

	return NewIntakeService(IntakeDependencies{
		TicketRepo: tickets,
		Router:     routing.NewRouter(routing.NewHistory(tickets), logger),
		Selector:   assignment.NewSelector(testRoster()),
		Knowledge:  knowledge,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Logger:     logger,
		AutoAssign: true,
		SuggestK:   3,
	}), recorder
}

func seedKnowledge(t *testing.T, articles *memKnowledgeRepo) {
	t.Helper()
	seed := kb.DefaultSeed()
	for i := range seed {
		if err := articles.Create(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestIngestPasswordTicket(t *testing.T) {
	t.Parallel()

	tickets := newMemTicketRepo()
	svc, recorder := newTestIntake(t, tickets, nil)

	email := "user@example.com"
	result, err := svc.Ingest(context.Background(), IntakeInput{
		Subject:   "Forgot my password",
		Body:      "I am locked out of my account",
		UserEmail: &email,
		Channel:   domain.ChannelWeb,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if result.Classification.Category != domain.CategoryPassword {
		t.Fatalf("category = %s, want password", result.Classification.Category)
	}
	if result.Decision.Priority != domain.PriorityP3 {
		t.Fatalf("priority = %s, want P3", result.Decision.Priority)
	}
	if result.Decision.Team != "ServiceDesk" {
		t.Fatalf("team = %s, want ServiceDesk", result.Decision.Team)
	}
	if result.Decision.PriorApplied {
		t.Fatal("prior should not apply without history")
	}
	if result.Ticket.ID != 1 {
		t.Fatalf("ticket id = %d, want 1", result.Ticket.ID)
	}
	if result.Ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want open", result.Ticket.Status)
	}
	if result.Ticket.AssigneeUser == nil || *result.Ticket.AssigneeUser != "alice@example.com" {
		t.Fatalf("assignee = %v, want alice@example.com", result.Ticket.AssigneeUser)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected knowledge suggestions")
	}
	if result.Suggestions[0].Title != "Reset Domain Password" {
		t.Fatalf("top suggestion = %q", result.Suggestions[0].Title)
	}

	got := recorder.all()
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0].Type != events.EventTicketCreated || got[1].Type != events.EventTicketAssigned {
		t.Fatalf("event order = %s, %s", got[0].Type, got[1].Type)
	}
	if got[1].Ticket.AssigneeUser == nil {
		t.Fatal("assigned event should carry the assignee snapshot")
	}
}

func TestIngestRoundRobinAdvances(t *testing.T) {
	t.Parallel()

	tickets := newMemTicketRepo()
	svc, _ := newTestIntake(t, tickets, nil)

	want := []string{"alice@example.com", "bob@example.com", "alice@example.com"}
	for i, member := range want {
		result, err := svc.Ingest(context.Background(), IntakeInput{
			Subject: "cannot reset my password",
			Channel: domain.ChannelWeb,
		})
		if err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
		if result.Ticket.AssigneeUser == nil || *result.Ticket.AssigneeUser != member {
			t.Fatalf("ticket %d assignee = %v, want %s", i+1, result.Ticket.AssigneeUser, member)
		}
	}
}

func TestIngestUrgencyOverridesPriority(t *testing.T) {
	t.Parallel()

	svc, _ := newTestIntake(t, newMemTicketRepo(), nil)

	result, err := svc.Ingest(context.Background(), IntakeInput{
		Subject: "printer on fire",
		Channel: domain.ChannelWeb,
		Urgency: "critical",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Decision.Priority != domain.PriorityP1 {
		t.Fatalf("priority = %s, want P1", result.Decision.Priority)
	}
}

func TestIngestPriorOverride(t *testing.T) {
	t.Parallel()

	tickets := newMemTicketRepo()
	tickets.counts = []routing.RouteCount{
		{Team: "NetworkOps", Priority: domain.PriorityP2, Count: 9},
		{Team: "ServiceDesk", Priority: domain.PriorityP3, Count: 2},
	}
	svc, _ := newTestIntake(t, tickets, nil)

	// single keyword: confidence 0.5, below the override ceiling
	result, err := svc.Ingest(context.Background(), IntakeInput{
		Subject: "password issue",
		Channel: domain.ChannelWeb,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !result.Decision.PriorApplied {
		t.Fatal("expected prior override")
	}
	if result.Decision.Team != "NetworkOps" || result.Decision.Priority != domain.PriorityP2 {
		t.Fatalf("decision = %s/%s, want NetworkOps/P2", result.Decision.Team, result.Decision.Priority)
	}
	if result.Ticket.AssigneeUser == nil || *result.Ticket.AssigneeUser != "carol@example.com" {
		t.Fatalf("assignee = %v, want carol@example.com", result.Ticket.AssigneeUser)
	}
}

func TestIngestCreateFailureIsFatal(t *testing.T) {
	t.Parallel()

	tickets := newMemTicketRepo()
	tickets.failCreate = true
	svc, recorder := newTestIntake(t, tickets, nil)

	if _, err := svc.Ingest(context.Background(), IntakeInput{
		Subject: "anything",
		Channel: domain.ChannelWeb,
	}); err == nil {
		t.Fatal("expected error")
	}
	if len(recorder.all()) != 0 {
		t.Fatal("no events should fire when create fails")
	}
}

func TestIngestAssignUpdateFailureIsFatal(t *testing.T) {
	t.Parallel()

	tickets := newMemTicketRepo()
	tickets.failUpdate = true
	svc, recorder := newTestIntake(t, tickets, nil)

	if _, err := svc.Ingest(context.Background(), IntakeInput{
		Subject: "password reset",
		Channel: domain.ChannelWeb,
	}); err == nil {
		t.Fatal("expected error")
	}
	if len(recorder.all()) != 0 {
		t.Fatal("no events should fire when the assignment update fails")
	}
}

func TestIngestSuggestionFailureDegrades(t *testing.T) {
	t.Parallel()

	articles := &memKnowledgeRepo{failList: true}
	svc, recorder := newTestIntake(t, newMemTicketRepo(), articles)

	result, err := svc.Ingest(context.Background(), IntakeInput{
		Subject: "vpn not connecting",
		Channel: domain.ChannelWeb,
	})
	if err != nil {
		t.Fatalf("ingest should not fail on retrieval errors: %v", err)
	}
	if len(result.Suggestions) != 0 {
		t.Fatalf("suggestions = %d, want 0", len(result.Suggestions))
	}
	if len(recorder.all()) != 2 {
		t.Fatal("events should still fire")
	}
}

func TestIngestValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestIntake(t, newMemTicketRepo(), nil)

	if _, err := svc.Ingest(context.Background(), IntakeInput{Channel: domain.ChannelWeb}); err == nil {
		t.Fatal("expected error for empty subject and body")
	}
	if _, err := svc.Ingest(context.Background(), IntakeInput{Subject: "x", Channel: domain.Channel("fax")}); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestIngestWithoutAutoAssign(t *testing.T) {
	t.Parallel()

	tickets := newMemTicketRepo()
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	recorder.subscribe(dispatcher, events.EventTicketCreated, events.EventTicketAssigned)

	articles := &memKnowledgeRepo{}
	seedKnowledge(t, articles)

	svc := NewIntakeService(IntakeDependencies{
		TicketRepo: tickets,
		Router:     routing.NewRouter(routing.NewHistory(tickets), logger),
		Selector:   assignment.NewSelector(testRoster()),
		Knowledge:  NewKnowledgeService(articles, kb.NewEngine(), "", logger),
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Logger:     logger,
		AutoAssign: false,
	})

	result, err := svc.Ingest(context.Background(), IntakeInput{
		Subject: "password reset",
		Channel: domain.ChannelWeb,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Ticket.AssigneeUser != nil {
		t.Fatal("no assignee expected with auto-assign off")
	}
	// the assigned event still fires for team-level notices
	if len(recorder.all()) != 2 {
		t.Fatalf("events = %d, want 2", len(recorder.all()))
	}
}
