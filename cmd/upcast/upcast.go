package main

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/quickserve/backend/internal/domain/catalog"
)

// Result reports what the batch found and changed
type Result struct {
	Pending int64
	Choice  int64
	Fixed   int64
}

// Upcast infers the selection mode for combo line items that lack one.
// A row with a choice group becomes a choice slot, any other row a fixed
// slot. Both updates run in one transaction; with dryRun only the counts
// are reported.
func Upcast(db *gorm.DB, dryRun bool) (*Result, error) {
	result := &Result{}

	pending := db.Model(&catalog.ComboLineItem{}).
		Where("selection_mode IS NULL OR selection_mode = ''")
	if err := pending.Count(&result.Pending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending rows: %w", err)
	}

	if dryRun {
		err := db.Model(&catalog.ComboLineItem{}).
			Where("(selection_mode IS NULL OR selection_mode = '') AND choice_group <> ''").
			Count(&result.Choice).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count choice rows: %w", err)
		}
		result.Fixed = result.Pending - result.Choice
		return result, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		choice := tx.Model(&catalog.ComboLineItem{}).
			Where("(selection_mode IS NULL OR selection_mode = '') AND choice_group <> ''").
			Update("selection_mode", catalog.SelectionModeChoice)
		if choice.Error != nil {
			return fmt.Errorf("failed to upcast choice slots: %w", choice.Error)
		}
		result.Choice = choice.RowsAffected

		fixed := tx.Model(&catalog.ComboLineItem{}).
			Where("selection_mode IS NULL OR selection_mode = ''").
			Update("selection_mode", catalog.SelectionModeFixed)
		if fixed.Error != nil {
			return fmt.Errorf("failed to upcast fixed slots: %w", fixed.Error)
		}
		result.Fixed = fixed.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
