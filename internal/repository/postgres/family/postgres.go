package family

import (
	"context"
	"errors"
	"time"

	familydomain "family-tasks-go/internal/domain/family"
	listsdomain "family-tasks-go/internal/domain/lists"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*userdomain.User, error) {
	return r.findUser(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PostgresRepository) GetUserForUpdate(ctx context.Context, id string) (*userdomain.User, error) {
	return r.findUser(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *PostgresRepository) SetUserFamily(ctx context.Context, userID string, familyID *string) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("family_id", familyID).Error
}

func (r *PostgresRepository) SetUserAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("is_admin", isAdmin).Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]userdomain.User, error) {
	var members []userdomain.User
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetAdmin(ctx context.Context, familyID string) (*userdomain.User, error) {
	return r.findUser(r.db.WithContext(ctx).Where("family_id = ? AND is_admin", familyID))
}

func (r *PostgresRepository) CountAdmins(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("family_id = ? AND is_admin", familyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) GetFamily(ctx context.Context, id string) (*familydomain.Family, error) {
	return r.findFamily(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PostgresRepository) GetFamilyByInviteCode(ctx context.Context, code string) (*familydomain.Family, error) {
	return r.findFamily(r.db.WithContext(ctx).Where("invite_code = ?", code))
}

func (r *PostgresRepository) IsInviteCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("id = ?", id).Update("name", name).Error
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", id).Error
}

func (r *PostgresRepository) CreateList(ctx context.Context, list *listsdomain.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *PostgresRepository) ReassignFamilyTasks(ctx context.Context, familyID, fromUserID, toUserID string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE tasks SET user_id = ?, updated_at = ?
		WHERE user_id = ? AND list_id IN (SELECT id FROM lists WHERE family_id = ?)
	`, toUserID, time.Now().UTC(), fromUserID, familyID).Error
}

func (r *PostgresRepository) findUser(query *gorm.DB) (*userdomain.User, error) {
	var user userdomain.User
	err := query.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) findFamily(query *gorm.DB) (*familydomain.Family, error) {
	var family familydomain.Family
	err := query.First(&family).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}
