package tasks

import (
	"context"
	"errors"

	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(tasksdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.first(ctx, &user, id); err != nil || user.ID == "" {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserForUpdate(ctx context.Context, id string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.first(ctx, &user, id, forUpdate); err != nil || user.ID == "" {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetList(ctx context.Context, id string) (*listsdomain.List, error) {
	var list listsdomain.List
	if err := r.first(ctx, &list, id); err != nil || list.ID == "" {
		return nil, err
	}
	return &list, nil
}

func (r *PostgresRepository) GetTask(ctx context.Context, id string) (*tasksdomain.Task, error) {
	var task tasksdomain.Task
	if err := r.first(ctx, &task, id); err != nil || task.ID == "" {
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) GetTaskForUpdate(ctx context.Context, id string) (*tasksdomain.Task, error) {
	var task tasksdomain.Task
	if err := r.first(ctx, &task, id, forUpdate); err != nil || task.ID == "" {
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) CreateTask(ctx context.Context, task *tasksdomain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *PostgresRepository) UpdateTask(ctx context.Context, task *tasksdomain.Task) error {
	return r.db.WithContext(ctx).
		Model(&tasksdomain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":     task.Title,
			"notes":     task.Notes,
			"completed": task.Completed,
			"user_id":   task.UserID,
		}).Error
}

func (r *PostgresRepository) DeleteTask(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&tasksdomain.Task{}, "id = ?", id).Error
}

func (r *PostgresRepository) ListByList(ctx context.Context, listID string) ([]tasksdomain.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("list_id = ?", listID))
}

func (r *PostgresRepository) ListByAssignee(ctx context.Context, userID string) ([]tasksdomain.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]tasksdomain.Task, error) {
	return r.find(r.db.WithContext(ctx).
		Select("tasks.*").
		Joins("join lists on lists.id = tasks.list_id").
		Where("lists.family_id = ?", familyID))
}

func (r *PostgresRepository) find(query *gorm.DB) ([]tasksdomain.Task, error) {
	var tasks []tasksdomain.Task
	if err := query.Order("tasks.created_at desc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// first loads the row with the given id into dest, leaving dest untouched
// when there is none.
func (r *PostgresRepository) first(ctx context.Context, dest interface{}, id string, clauses ...clause.Expression) error {
	err := r.db.WithContext(ctx).Clauses(clauses...).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
