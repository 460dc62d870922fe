package repository

import (
	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	users table[entity.User, *entity.User]
}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, actor entity.Actor, user *entity.User) error {
	return r.users.create(db, actor, user)
}

func (r *userRepository) Update(db *gorm.DB, actor entity.Actor, user *entity.User) error {
	return r.users.save(db, actor, user)
}

func (r *userRepository) SoftDelete(db *gorm.DB, actor entity.Actor, user *entity.User) error {
	return r.users.softDelete(db, actor, user)
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return r.users.first(r.users.query(db).Where("email = ?", email))
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.users.first(r.users.query(db).Where("id = ?", id))
}

func (r *userRepository) FindAll(db *gorm.DB) ([]entity.User, error) {
	var users []entity.User
	err := r.users.query(db).Order("name ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
