package models

// FirearmType groups firearms
type FirearmType string

const (
	FirearmAssaultRifle    FirearmType = "assault_rifle"
	FirearmAssaultCarbine  FirearmType = "assault_carbine"
	FirearmSMG             FirearmType = "smg"
	FirearmMachineGun      FirearmType = "machine_gun"
	FirearmMarksmanRifle   FirearmType = "marksman_rifle"
	FirearmSniperRifle     FirearmType = "sniper_rifle"
	FirearmShotgun         FirearmType = "shotgun"
	FirearmPistol          FirearmType = "pistol"
	FirearmGrenadeLauncher FirearmType = "grenade_launcher"
)

// AllFirearmTypes returns every firearm type in display order
func AllFirearmTypes() []FirearmType {
	return []FirearmType{
		FirearmAssaultRifle, FirearmAssaultCarbine, FirearmSMG,
		FirearmMachineGun, FirearmMarksmanRifle, FirearmSniperRifle,
		FirearmShotgun, FirearmPistol, FirearmGrenadeLauncher,
	}
}

func (t FirearmType) Valid() bool { return contains(AllFirearmTypes(), t) }

// ArmorType separates body armor from head protection
type ArmorType string

const (
	ArmorBody   ArmorType = "body"
	ArmorHelmet ArmorType = "helmet"
	ArmorVisor  ArmorType = "visor"
)

func AllArmorTypes() []ArmorType {
	return []ArmorType{ArmorBody, ArmorHelmet, ArmorVisor}
}

func (t ArmorType) Valid() bool { return contains(AllArmorTypes(), t) }

// ArmorClass is the protection rating, 1 (lowest) to 6
type ArmorClass int

func AllArmorClasses() []ArmorClass {
	return []ArmorClass{1, 2, 3, 4, 5, 6}
}

func (c ArmorClass) Valid() bool { return c >= 1 && c <= 6 }

// ArmorMaterial is the primary material of an armor piece
type ArmorMaterial string

const (
	MaterialAramid   ArmorMaterial = "aramid"
	MaterialUHMWPE   ArmorMaterial = "uhmwpe"
	MaterialSteel    ArmorMaterial = "steel"
	MaterialTitanium ArmorMaterial = "titanium"
	MaterialAluminum ArmorMaterial = "aluminum"
	MaterialCeramic  ArmorMaterial = "ceramic"
	MaterialGlass    ArmorMaterial = "glass"
)

func AllArmorMaterials() []ArmorMaterial {
	return []ArmorMaterial{
		MaterialAramid, MaterialUHMWPE, MaterialSteel, MaterialTitanium,
		MaterialAluminum, MaterialCeramic, MaterialGlass,
	}
}

func (m ArmorMaterial) Valid() bool { return contains(AllArmorMaterials(), m) }

// MedicalItemType groups medical items
type MedicalItemType string

const (
	MedicalMedkit      MedicalItemType = "medkit"
	MedicalPainkiller  MedicalItemType = "painkiller"
	MedicalBandage     MedicalItemType = "bandage"
	MedicalSplint      MedicalItemType = "splint"
	MedicalSurgicalKit MedicalItemType = "surgical_kit"
	MedicalInjector    MedicalItemType = "injector"
)

func AllMedicalItemTypes() []MedicalItemType {
	return []MedicalItemType{
		MedicalMedkit, MedicalPainkiller, MedicalBandage,
		MedicalSplint, MedicalSurgicalKit, MedicalInjector,
	}
}

func (t MedicalItemType) Valid() bool { return contains(AllMedicalItemTypes(), t) }

// VideoAdState is the readiness of the rewarded video ad
type VideoAdState int

const (
	VideoAdUnavailable VideoAdState = iota
	VideoAdLoading
	VideoAdReady
)

func (s VideoAdState) String() string {
	switch s {
	case VideoAdUnavailable:
		return "unavailable"
	case VideoAdLoading:
		return "loading"
	case VideoAdReady:
		return "ready"
	default:
		return "unknown"
	}
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
