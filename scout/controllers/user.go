package controllers

import (
	"context"

	"scout/scout/sources/psql/dao"
	"scout/scout/sources/psql/models"
)

type UserController struct {
	dao *dao.UserDAO
}

func NewUserController(dao *dao.UserDAO) *UserController {
	return &UserController{dao: dao}
}

// GetUser returns nil for an unknown id; the route maps that to 404.
func (c *UserController) GetUser(ctx context.Context, id int) (*models.User, error) {
	return c.dao.GetUserByID(ctx, id)
}
