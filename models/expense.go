package models

import (
	"time"
)

// NecessityLevels are the accepted values for an expense's necessity_level
var NecessityLevels = []string{"essential", "important", "optional", "impulse"}

type Expense struct {
	ID             string    `json:"id"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	NecessityLevel string    `json:"necessity_level"`
	ExpenseDate    string    `json:"expense_date"`
	Description    string    `json:"description"`
	PaymentMethod  string    `json:"payment_method"`
	Created        time.Time `json:"created"`
}

// CategoryTotal is one row of the by-category expense statistics
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}
