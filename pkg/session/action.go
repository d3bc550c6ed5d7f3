package session

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"p9e.in/ncac/models"
	"p9e.in/ncac/pkg/ncstore"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	if err := val.RegisterValidation("actionstatus", func(fl validator.FieldLevel) bool {
		_, err := models.ParseActionStatus(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return val
}

// ActionInput is a corrective action as entered by the operator. Empty
// DueDate means today, empty Status means Abierta.
type ActionInput struct {
	Task          string `json:"task"`
	EstimatedTime string `json:"estimatedTime"`
	Responsible   string `json:"responsible"`
	DueDate       string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Status        string `json:"status" validate:"actionstatus"`
}

func (in ActionInput) action(today time.Time) (models.CorrectiveAction, error) {
	if err := v.Struct(in); err != nil {
		return models.CorrectiveAction{}, fmt.Errorf("%w: %v", ncstore.ErrInvalidInput, err)
	}
	status, _ := models.ParseActionStatus(in.Status)
	due := in.DueDate
	if due == "" {
		due = today.Format(models.DueDateLayout)
	}
	return models.CorrectiveAction{
		Task:          in.Task,
		EstimatedTime: in.EstimatedTime,
		Responsible:   in.Responsible,
		DueDate:       due,
		Status:        status,
	}, nil
}
