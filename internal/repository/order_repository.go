package repository

import (
	"github.com/quangdng/edumart/internal/model"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByOrderCode(orderCode string) (*model.Order, error)
	Update(order *model.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) FindByOrderCode(orderCode string) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("order_code = ?", orderCode).First(&order).Error
	return &order, err
}

func (r *orderRepository) Update(order *model.Order) error {
	return r.db.Save(order).Error
}
