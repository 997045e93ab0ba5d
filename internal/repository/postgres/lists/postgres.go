package lists

import (
	"context"
	"errors"

	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(listsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*userdomain.User, error) {
	var user userdomain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetList(ctx context.Context, id string) (*listsdomain.List, error) {
	var list listsdomain.List
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]listsdomain.List, error) {
	var lists []listsdomain.List
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]listsdomain.List, error) {
	var lists []listsdomain.List
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *PostgresRepository) CreateList(ctx context.Context, list *listsdomain.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// UpdateList only touches the mutable columns; ownership never changes.
func (r *PostgresRepository) UpdateList(ctx context.Context, list *listsdomain.List) error {
	return r.db.WithContext(ctx).
		Model(&listsdomain.List{}).
		Where("id = ?", list.ID).
		Updates(map[string]interface{}{
			"name":  list.Name,
			"color": list.Color,
		}).Error
}

func (r *PostgresRepository) DeleteList(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&listsdomain.List{}, "id = ?", id).Error
}

func (r *PostgresRepository) DeleteCompletedTasks(ctx context.Context, listID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&tasksdomain.Task{}, "list_id = ? AND completed", listID)
	return result.RowsAffected, result.Error
}
