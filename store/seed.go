package store

import (
	"fmt"
)

// SeedMasterData loads the static reference data if it is not already
// present. Each entity is checked individually so a partially seeded
// database converges on restart.
func (db *DB) SeedMasterData() error {
	operations := []*Operation{
		{Seq: 1, Name: "Parts Prep", Description: "Load component trays"},
		{Seq: 2, Name: "Assembly", Description: "Assemble components"},
		{Seq: 3, Name: "Inspection", Description: "Visual and functional inspection"},
		{Seq: 4, Name: "Packaging", Description: "Pack finished units"},
		{Seq: 5, Name: "Complete", Description: "Work complete"},
	}
	for _, op := range operations {
		exists, err := db.operationExists(op.Seq)
		if err != nil {
			return fmt.Errorf("seed operations: %w", err)
		}
		if !exists {
			if err := db.CreateOperation(op); err != nil {
				return fmt.Errorf("seed operations: %w", err)
			}
		}
	}

	products := []*Product{
		{ID: "TEMP-100", Name: "Temperature Sensor Module", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "PRES-200", Name: "Pressure Sensor Module", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "GAS-300", Name: "Gas Sensor Module", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "TEMP-101", Name: "Temperature Sensor Module (High Precision)", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "TEMP-102", Name: "Temperature Sensor Module (Industrial)", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "PRES-201", Name: "Pressure Sensor Module (High Pressure)", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "HUMID-400", Name: "Humidity Sensor Module", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "MULTI-500", Name: "Combo Sensor Module (Temp/Humidity)", Category: "SENSOR", Unit: "EA", Enabled: true},
		{ID: "MULTI-501", Name: "Combo Sensor Module (Air Quality)", Category: "SENSOR", Unit: "EA", Enabled: true},
	}
	for _, p := range products {
		exists, err := db.productExists(p.ID)
		if err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		if !exists {
			if err := db.CreateProduct(p); err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}
	}

	// Standard cycle times (seconds) per product and operation 1..4.
	stdMap := map[string]map[int]float64{
		"TEMP-100":  {1: 15, 2: 40, 3: 25, 4: 10},
		"PRES-200":  {1: 20, 2: 50, 3: 35, 4: 15},
		"GAS-300":   {1: 25, 2: 60, 3: 45, 4: 20},
		"TEMP-101":  {1: 18, 2: 55, 3: 40, 4: 12},
		"TEMP-102":  {1: 22, 2: 65, 3: 30, 4: 18},
		"PRES-201":  {1: 25, 2: 70, 3: 50, 4: 20},
		"HUMID-400": {1: 15, 2: 45, 3: 30, 4: 12},
		"MULTI-500": {1: 30, 2: 80, 3: 55, 4: 25},
		"MULTI-501": {1: 35, 2: 90, 3: 60, 4: 28},
	}
	for productID, ops := range stdMap {
		for seq, sec := range ops {
			exists, err := db.operationStandardExists(productID, seq)
			if err != nil {
				return fmt.Errorf("seed standards: %w", err)
			}
			if !exists {
				if err := db.CreateOperationStandard(&OperationStandard{ProductID: productID, OperationSeq: seq, StandardTimeSec: sec}); err != nil {
					return fmt.Errorf("seed standards: %w", err)
				}
			}
		}
	}

	equipment := []*Equipment{
		{ID: "STN-PREP-1", Name: "Prep Station 1", Type: "prep", OperationSeq: 1, Location: "LINE-1", Enabled: true},
		{ID: "STN-PREP-2", Name: "Prep Station 2", Type: "prep", OperationSeq: 1, Location: "LINE-1", Enabled: true},
		{ID: "STN-PREP-3", Name: "Prep Station 3", Type: "prep", OperationSeq: 1, Location: "LINE-2", Enabled: true},
		{ID: "STN-A", Name: "Assembly Station A", Type: "assembly", OperationSeq: 2, Location: "LINE-1", Enabled: true},
		{ID: "STN-B", Name: "Assembly Station B", Type: "assembly", OperationSeq: 2, Location: "LINE-1", Enabled: true},
		{ID: "STN-C", Name: "Assembly Station C", Type: "assembly", OperationSeq: 2, Location: "LINE-2", Enabled: true},
		{ID: "STN-D", Name: "Assembly Station D (Legacy)", Type: "assembly", OperationSeq: 2, Location: "LINE-2", Enabled: true},
		{ID: "STN-INS-1", Name: "Inspection Station 1 (Auto)", Type: "inspection", OperationSeq: 3, Location: "LINE-1", Enabled: true},
		{ID: "STN-INS-2", Name: "Inspection Station 2 (Auto)", Type: "inspection", OperationSeq: 3, Location: "LINE-1", Enabled: true},
		{ID: "STN-INS-3", Name: "Inspection Station 3 (Manual)", Type: "inspection", OperationSeq: 3, Location: "LINE-2", Enabled: true},
		{ID: "STN-PKG-1", Name: "Packing Station 1", Type: "packing", OperationSeq: 4, Location: "LINE-1", Enabled: true},
		{ID: "STN-PKG-2", Name: "Packing Station 2", Type: "packing", OperationSeq: 4, Location: "LINE-1", Enabled: true},
		{ID: "STN-PKG-3", Name: "Packing Station 3", Type: "packing", OperationSeq: 4, Location: "LINE-2", Enabled: true},
	}
	for _, e := range equipment {
		exists, err := db.equipmentExists(e.ID)
		if err != nil {
			return fmt.Errorf("seed equipment: %w", err)
		}
		if !exists {
			if err := db.CreateEquipment(e); err != nil {
				return fmt.Errorf("seed equipment: %w", err)
			}
		}
	}

	defects := []*DefectCode{
		{Code: "D001", Name: "Solder Defect", Description: "Solder bridging or missing solder"},
		{Code: "D002", Name: "Sensor Open Circuit", Description: "Broken lead or bad contact"},
		{Code: "D003", Name: "Cosmetic Damage", Description: "Scratch or contamination"},
		{Code: "D004", Name: "Missing Component", Description: "Required component not assembled"},
		{Code: "D005", Name: "Sensitivity Out of Spec", Description: "Sensor sensitivity below spec"},
		{Code: "D006", Name: "Response Time Exceeded", Description: "Reaction time too slow"},
		{Code: "D007", Name: "Packaging Defect", Description: "Damaged or insufficient packaging"},
		{Code: "D008", Name: "Label Error", Description: "Missing or incorrect product label"},
	}
	for _, d := range defects {
		exists, err := db.defectCodeExists(d.Code)
		if err != nil {
			return fmt.Errorf("seed defect codes: %w", err)
		}
		if !exists {
			if err := db.CreateDefectCode(d); err != nil {
				return fmt.Errorf("seed defect codes: %w", err)
			}
		}
	}

	f := func(v float64) *float64 { return &v }
	items := []*InspectionItem{
		{ID: "SENSITIVITY", Name: "Sensitivity", Unit: "V", LowerLimit: f(4.8), UpperLimit: f(5.2), Target: f(5.0)},
		{ID: "RESP_TIME_MS", Name: "Response Time", Unit: "ms", LowerLimit: f(0.0), UpperLimit: f(120.0), Target: f(100.0)},
		{ID: "OFFSET_MV", Name: "Offset", Unit: "mV", LowerLimit: f(-10.0), UpperLimit: f(10.0), Target: f(0.0)},
		{ID: "ACCURACY", Name: "Accuracy", Unit: "%", LowerLimit: f(98.0), UpperLimit: f(102.0), Target: f(100.0)},
		{ID: "NOISE_LEVEL", Name: "Noise Level", Unit: "mV", LowerLimit: f(0.0), UpperLimit: f(5.0), Target: f(2.0)},
		{ID: "TEMP_COEFF", Name: "Temperature Coefficient", Unit: "ppm/C", LowerLimit: f(-50.0), UpperLimit: f(50.0), Target: f(0.0)},
	}
	for _, it := range items {
		exists, err := db.inspectionItemExists(it.ID)
		if err != nil {
			return fmt.Errorf("seed inspection items: %w", err)
		}
		if !exists {
			if err := db.CreateInspectionItem(it); err != nil {
				return fmt.Errorf("seed inspection items: %w", err)
			}
		}
	}

	return nil
}
