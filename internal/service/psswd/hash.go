// Package psswd хеширование паролей пользователей.
package psswd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHash struct {
	cost int
}

// New создает хешер со стоимостью cost. Значение вне допустимого диапазона bcrypt заменяется на DefaultCost.
func New(cost int) PasswordHash {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHash{cost: cost}
}

func (p PasswordHash) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (p PasswordHash) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
