package controllers

import (
	"strconv"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"
)

func MonetariatForm(c *lib.Ctx) {
	c.Render(200, "monetariat/form", lib.J{
		"title":           "Monétariat — Nouvelle dépense",
		"necessityLevels": models.NecessityLevels,
		"today":           time.Now().Format("2006-01-02"),
	})
}

func MonetariatDashboard(c *lib.Ctx) {
	expenses := []*models.Expense{}
	c.DB.All(&expenses, `select * from expenses order by expense_date desc, created desc limit 20`)
	byCategory, total, thisMonth := expenseStats(c)
	c.Render(200, "monetariat/dashboard", lib.J{
		"title":      "Monétariat — Dashboard",
		"expenses":   expenses,
		"byCategory": byCategory,
		"total":      total,
		"thisMonth":  thisMonth,
	})
}

// MonetariatExpenses creates an expense on POST and lists them on GET
func MonetariatExpenses(c *lib.Ctx) {
	if c.Req.Method == "POST" {
		monetariatExpensesCreate(c)
		return
	}
	expenses := []*models.Expense{}
	c.DB.All(&expenses, `select * from expenses order by expense_date desc, created desc limit ?`,
		c.ParamInt("limit", 100))
	c.JSON(200, expenses)
}

func monetariatExpensesCreate(c *lib.Ctx) {
	body := c.BindJ()
	values := map[string]string{
		"amount":          strconv.FormatFloat(body.GetFloat("amount"), 'f', -1, 64),
		"category":        body.Get("category"),
		"necessity_level": body.Get("necessity_level"),
		"expense_date":    body.Get("expense_date"),
	}
	errors := lib.Validate(values,
		lib.ValidateNumber("amount", 0.01, -1),
		lib.ValidatePresence("category"),
		lib.ValidateOneOf("necessity_level", models.NecessityLevels),
		lib.ValidateRegexp("expense_date", lib.DateRegexp),
	)
	if len(errors) > 0 {
		c.JSON(422, lib.J{"success": false, "errors": errors})
		return
	}

	expense := &models.Expense{
		ID:             lib.NewID(),
		Amount:         body.GetFloat("amount"),
		Category:       body.Get("category"),
		NecessityLevel: body.Get("necessity_level"),
		ExpenseDate:    body.Get("expense_date"),
		Description:    body.Get("description"),
		PaymentMethod:  body.Get("payment_method"),
		Created:        time.Now().UTC(),
	}
	c.DB.Put(expense)
	c.JSON(200, lib.J{"success": true, "id": expense.ID})
}

func MonetariatStats(c *lib.Ctx) {
	byCategory, total, thisMonth := expenseStats(c)
	c.JSON(200, lib.J{
		"by_category": byCategory,
		"total":       total,
		"this_month":  thisMonth,
	})
}

func expenseStats(c *lib.Ctx) ([]*models.CategoryTotal, float64, float64) {
	byCategory := []*models.CategoryTotal{}
	c.DB.All(&byCategory, `select category, sum(amount) as total, count(*) as count from expenses group by category order by total desc`)
	total := struct{ Total float64 }{}
	c.DB.First(&total, `select coalesce(sum(amount), 0) as total from expenses`)
	thisMonth := struct{ Total float64 }{}
	c.DB.First(&thisMonth, `select coalesce(sum(amount), 0) as total from expenses where strftime('%Y-%m', expense_date) = strftime('%Y-%m', 'now')`)
	return byCategory, total.Total, thisMonth.Total
}
