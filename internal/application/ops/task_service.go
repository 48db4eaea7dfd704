package ops

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
)

// TaskService handles housekeeping and maintenance task use cases
type TaskService struct {
	taskRepo     ops.TaskRepository
	propertyRepo portfolio.PropertyRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ops.TaskRepository, propertyRepo portfolio.PropertyRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		propertyRepo: propertyRepo,
	}
}

// Create records a new task in TODO status
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if req.PropertyID != nil {
		if _, err := s.propertyRepo.FindByID(ctx, *req.PropertyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PROPERTY", "Property does not exist")
			}
			return nil, err
		}
	}

	priority := ops.TaskPriorityMedium
	if req.Priority != "" {
		priority = ops.TaskPriority(req.Priority)
	}

	task, err := ops.NewTask(req.Title, req.Notes, req.PropertyID, req.DueDate, priority)
	if err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		if err := task.Assign(*req.AssigneeID); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return ToTaskResponse(task), nil
}

// GetByID retrieves a task by its ID
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTaskResponse(task), nil
}

// List retrieves tasks matching the filter with pagination
func (s *TaskService) List(ctx context.Context, filter TaskListFilter) ([]TaskResponse, int64, error) {
	domainFilter := ops.TaskFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.PropertyID != "" {
		id, err := uuid.Parse(filter.PropertyID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PROPERTY", "Property id is not a valid UUID")
		}
		domainFilter.PropertyID = &id
	}
	if filter.AssigneeID != "" {
		id, err := uuid.Parse(filter.AssigneeID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_ASSIGNEE", "Assignee id is not a valid UUID")
		}
		domainFilter.AssigneeID = &id
	}
	if filter.Status != "" {
		status := ops.TaskStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Priority != "" {
		priority := ops.TaskPriority(filter.Priority)
		domainFilter.Priority = &priority
	}
	if filter.DueBefore != "" {
		due, err := time.Parse("2006-01-02", filter.DueBefore)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "due_before must be formatted as YYYY-MM-DD")
		}
		domainFilter.DueBefore = &due
	}

	tasks, total, err := s.taskRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = *ToTaskResponse(&tasks[i])
	}
	return responses, total, nil
}

// ListOverdue returns tasks past their due date and not done
func (s *TaskService) ListOverdue(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindOverdue(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = *ToTaskResponse(&tasks[i])
	}
	return responses, nil
}

// Update modifies a task's editable fields
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := task.Title
	if req.Title != nil {
		title = *req.Title
	}
	notes := task.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	propertyID := task.PropertyID
	if req.PropertyID != nil {
		propertyID = req.PropertyID
	}
	dueDate := task.DueDate
	if req.DueDate != nil {
		dueDate = req.DueDate
	}
	priority := task.Priority
	if req.Priority != nil {
		priority = ops.TaskPriority(*req.Priority)
	}

	if err := task.Update(title, notes, propertyID, dueDate, priority); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return ToTaskResponse(task), nil
}

// Assign assigns the task to a user
func (s *TaskService) Assign(ctx context.Context, id uuid.UUID, req AssignTaskRequest) (*TaskResponse, error) {
	return s.mutate(ctx, id, func(task *ops.Task) error {
		return task.Assign(req.AssigneeID)
	})
}

// Start moves a task to IN_PROGRESS
func (s *TaskService) Start(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, id, (*ops.Task).Start)
}

// Complete marks a task DONE
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, id, (*ops.Task).Complete)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taskRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}

func (s *TaskService) mutate(ctx context.Context, id uuid.UUID, fn func(*ops.Task) error) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(task); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return ToTaskResponse(task), nil
}
