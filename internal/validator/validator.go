// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"plutus/internal/currency"
	"plutus/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("date_key", validateDateKey)
		_ = v.RegisterValidation("month_key", validateMonthKey)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("goal_status", validateGoalStatus)
		_ = v.RegisterValidation("import_mode", validateImportMode)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return currency.Valid(fl.Field().String())
}

func validateDateKey(fl validator.FieldLevel) bool {
	return models.ValidDateKey(fl.Field().String())
}

func validateMonthKey(fl validator.FieldLevel) bool {
	return models.ValidMonthKey(fl.Field().String())
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "expense", "income", "both":
		return true
	}
	return false
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "expense", "income", "transfer":
		return true
	}
	return false
}

func validateGoalStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "completed", "archived":
		return true
	}
	return false
}

func validateImportMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "replace", "merge":
		return true
	}
	return false
}
