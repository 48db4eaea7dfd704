package ops

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ops.Issue), args.Error(1)
}

func (m *MockIssueRepository) FindAll(ctx context.Context, filter ops.IssueFilter) ([]ops.Issue, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ops.Issue), args.Get(1).(int64), args.Error(2)
}

func (m *MockIssueRepository) FindOpenByProperty(ctx context.Context, propertyID uuid.UUID) ([]ops.Issue, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]ops.Issue), args.Error(1)
}

func (m *MockIssueRepository) Save(ctx context.Context, i *ops.Issue) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIssueRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ops.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, filter ops.TaskFilter) ([]ops.Task, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ops.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]ops.Task, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]ops.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *ops.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByCode(ctx context.Context, code string) (*portfolio.Property, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAll(ctx context.Context, filter portfolio.PropertyFilter) ([]portfolio.Property, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]portfolio.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyRepository) FindActive(ctx context.Context) ([]portfolio.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]portfolio.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, property *portfolio.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type capturedEvents struct {
	events []shared.DomainEvent
}

func (c *capturedEvents) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	c.events = append(c.events, events...)
	return nil
}

func opsTestProperty(t *testing.T) *portfolio.Property {
	t.Helper()
	rate := valueobject.NewMoneyUSD(decimal.NewFromInt(100))
	p, err := portfolio.NewProperty("PROP-001", "Sea View", "", portfolio.PropertyTypeApartment, uuid.New(), rate)
	require.NoError(t, err)
	return p
}

func TestIssueServiceReportPublishesEvent(t *testing.T) {
	issueRepo := new(MockIssueRepository)
	propertyRepo := new(MockPropertyRepository)
	bus := &capturedEvents{}
	service := NewIssueService(issueRepo, propertyRepo, bus)

	property := opsTestProperty(t)
	propertyRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	issueRepo.On("Save", mock.Anything, mock.AnythingOfType("*ops.Issue")).Return(nil)

	resp, err := service.Report(context.Background(), ReportIssueRequest{
		PropertyID: property.ID,
		Title:      "AC broken",
		Severity:   "URGENT",
		ReportedBy: "Guest in unit 2",
	})

	require.NoError(t, err)
	assert.Equal(t, "OPEN", resp.Status)
	assert.Equal(t, "URGENT", resp.Severity)
	require.Len(t, bus.events, 1)
	assert.Equal(t, "IssueReported", bus.events[0].EventType())
}

func TestIssueServiceResolveAndClose(t *testing.T) {
	issueRepo := new(MockIssueRepository)
	service := NewIssueService(issueRepo, new(MockPropertyRepository), nil)

	issue, err := ops.NewIssue(uuid.New(), "Leaky tap", "", ops.SeverityLow, "")
	require.NoError(t, err)
	issue.ClearDomainEvents()
	issueRepo.On("FindByID", mock.Anything, issue.ID).Return(issue, nil)
	issueRepo.On("Save", mock.Anything, issue).Return(nil)

	resp, err := service.Resolve(context.Background(), issue.ID, ResolveIssueRequest{Resolution: "Replaced washer"})
	require.NoError(t, err)
	assert.Equal(t, "RESOLVED", resp.Status)

	resp, err = service.Close(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", resp.Status)
}

func TestIssueServiceAssignClosedIssue(t *testing.T) {
	issueRepo := new(MockIssueRepository)
	service := NewIssueService(issueRepo, new(MockPropertyRepository), nil)

	issue, err := ops.NewIssue(uuid.New(), "Broken lock", "", ops.SeverityHigh, "")
	require.NoError(t, err)
	require.NoError(t, issue.Resolve("Replaced"))
	require.NoError(t, issue.Close())
	issueRepo.On("FindByID", mock.Anything, issue.ID).Return(issue, nil)

	_, err = service.Assign(context.Background(), issue.ID, AssignIssueRequest{AssigneeID: uuid.New()})
	assert.Error(t, err)
}

func TestTaskServiceCreateWithAssignee(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	service := NewTaskService(taskRepo, new(MockPropertyRepository))

	taskRepo.On("Save", mock.Anything, mock.AnythingOfType("*ops.Task")).Return(nil)

	assignee := uuid.New()
	resp, err := service.Create(context.Background(), CreateTaskRequest{
		Title:      "Restock towels",
		AssigneeID: &assignee,
		Priority:   "HIGH",
	})

	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", resp.Status, "assignment starts the task")
	assert.Equal(t, "HIGH", resp.Priority)
	require.NotNil(t, resp.AssigneeID)
	assert.Equal(t, assignee, *resp.AssigneeID)
}

func TestTaskServiceLifecycle(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	service := NewTaskService(taskRepo, new(MockPropertyRepository))

	task, err := ops.NewTask("Clean pool", "", nil, nil, ops.TaskPriorityMedium)
	require.NoError(t, err)
	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Save", mock.Anything, task).Return(nil)

	resp, err := service.Start(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", resp.Status)

	resp, err = service.Complete(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "DONE", resp.Status)
	assert.NotNil(t, resp.CompletedAt)
}

func TestTaskServiceOverdueFlag(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	service := NewTaskService(taskRepo, new(MockPropertyRepository))

	due := time.Now().UTC().AddDate(0, 0, -2)
	task, err := ops.NewTask("Fix gate", "", nil, &due, ops.TaskPriorityLow)
	require.NoError(t, err)
	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)

	resp, err := service.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.True(t, resp.Overdue)
}
