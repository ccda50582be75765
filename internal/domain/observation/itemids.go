package observation

// Itemids of the charted signals the scorer consumes. These are stable
// identifiers assigned by the source charting system.
const (
	ItemGCSEye    int64 = 220739
	ItemGCSVerbal int64 = 223900
	ItemGCSMotor  int64 = 223901
	// The pre-switchover generation charted the summed total directly.
	ItemGCSTotalLegacy int64 = 198
)

// Mean arterial pressure appears under three itemids depending on the
// monitoring source.
var MeanBPItems = []int64{220052, 220181, 225312}

// GCSItems lists every itemid carrying a Glasgow Coma Scale element.
var GCSItems = []int64{ItemGCSEye, ItemGCSVerbal, ItemGCSMotor, ItemGCSTotalLegacy}

// Lab itemids, keyed by hospital admission in the lab system.
const (
	LabBilirubin  int64 = 50885
	LabCreatinine int64 = 50912
	LabPlatelets  int64 = 51265
)

// SpecimenArterial is the blood gas specimen label for arterial draws. Only
// arterial gases carry a usable PaO2/FiO2 ratio.
const SpecimenArterial = "ART."

// VentStatusInvasive marks episodes of invasive mechanical ventilation.
const VentStatusInvasive = "InvasiveVent"

func gcsElementFor(itemID int64) (GCSElement, bool) {
	switch itemID {
	case ItemGCSEye:
		return GCSEye, true
	case ItemGCSVerbal:
		return GCSVerbal, true
	case ItemGCSMotor:
		return GCSMotor, true
	case ItemGCSTotalLegacy:
		return GCSTotal, true
	}
	return "", false
}
