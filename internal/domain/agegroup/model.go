package agegroup

import (
	"context"
	"fmt"
	"strings"
)

// AgeGroup represents a youth bracket such as "U10" or "U14".
type AgeGroup struct {
	ID    string
	Name  string
	Label string
}

func (a AgeGroup) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("agegroup: id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("agegroup: name is required")
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, a AgeGroup) (AgeGroup, error)
	GetByID(ctx context.Context, id string) (AgeGroup, bool, error)
	GetByName(ctx context.Context, name string) (AgeGroup, bool, error)
	List(ctx context.Context) ([]AgeGroup, error)
}
