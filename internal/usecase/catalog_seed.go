package usecase

import (
	"context"
	"fmt"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/pkg/utils"
)

const (
	defaultManufacturer = "ResMed"
	defaultMachineModel = "AirCurve 10 VAuto"
	defaultMaskModel    = "AirFit F40"
)

// DefaultEquipment returns the machine and mask of the default catalog
func DefaultEquipment(purchaseDate time.Time) []*entity.Equipment {
	purchaseDate = utils.DateOf(purchaseDate)
	return []*entity.Equipment{
		{
			Type:         entity.EquipmentBiPAPMachine,
			Manufacturer: defaultManufacturer,
			Model:        defaultMachineModel,
			SerialNumber: "23233592809",
			PurchaseDate: purchaseDate,
			Notes:        "BiPAP machine from VA",
		},
		{
			Type:         entity.EquipmentMask,
			Manufacturer: defaultManufacturer,
			Model:        defaultMaskModel,
			PurchaseDate: purchaseDate,
			Notes:        "Full face mask",
		},
	}
}

// DefaultParts returns the replaceable parts of the default equipment
func DefaultParts() []*entity.Part {
	part := func(name string, category entity.PartCategory, model string, days int, description string) *entity.Part {
		return &entity.Part{
			Name:                    name,
			Category:                category,
			Manufacturer:            defaultManufacturer,
			CompatibleModel:         model,
			RecommendedIntervalDays: days,
			Description:             description,
		}
	}

	return []*entity.Part{
		// mask
		part("Mask Cushion", entity.CategoryMaskCushion, defaultMaskModel, entity.MaskCushionDays, "Silicone cushion for full face mask"),
		part("Mask Frame", entity.CategoryMaskFrame, defaultMaskModel, entity.MaskFrameDays, "Mask frame assembly"),
		part("Headgear", entity.CategoryHeadgear, defaultMaskModel, entity.HeadgearDays, "Headgear straps"),
		// machine
		part("Air Filter (Disposable)", entity.CategoryAirFilter, defaultMachineModel, entity.AirFilterDays, "Disposable air filter - replace monthly"),
		part("Water Chamber", entity.CategoryWaterChamber, defaultMachineModel, entity.WaterChamberDays, "Humidifier water chamber"),
		part("Standard Tubing", entity.CategoryTubing, defaultMachineModel, entity.TubingDays, "6ft standard tubing"),
		part("Elbow Connector", entity.CategoryElbowConnector, defaultMachineModel, entity.ElbowConnectorDays, "Swivel elbow connector"),
	}
}

// SeedDefaultCatalog fills an empty catalog with the default equipment and parts.
// Returns false when the catalog already has parts.
func (t *PartTracker) SeedDefaultCatalog(ctx context.Context, purchaseDate time.Time) (bool, error) {
	existing, err := t.parts.ListParts(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, equipment := range DefaultEquipment(purchaseDate) {
		if err := t.equipment.CreateEquipment(ctx, equipment); err != nil {
			return false, fmt.Errorf("failed to seed equipment %s: %w", equipment.Model, err)
		}
	}

	parts := DefaultParts()
	if err := t.parts.CreateParts(ctx, parts); err != nil {
		return false, fmt.Errorf("failed to seed parts: %w", err)
	}

	t.logger.Info("Default catalog seeded", "parts", len(parts))
	return true, nil
}
