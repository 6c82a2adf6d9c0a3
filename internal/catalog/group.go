package catalog

import "github.com/meur/battlebuddy/internal/models"

// GroupFirearmsByType partitions firearms by type. Every type is present
// as a key, with an empty slice when nothing matches.
func GroupFirearmsByType(firearms []models.Firearm) map[models.FirearmType][]models.Firearm {
	groups := make(map[models.FirearmType][]models.Firearm)
	for _, t := range models.AllFirearmTypes() {
		groups[t] = []models.Firearm{}
	}
	for _, f := range firearms {
		groups[f.Type] = append(groups[f.Type], f)
	}
	return groups
}

// GroupArmorByClass partitions armor by class, with every class present
func GroupArmorByClass(armor []models.Armor) map[models.ArmorClass][]models.Armor {
	groups := make(map[models.ArmorClass][]models.Armor)
	for _, c := range models.AllArmorClasses() {
		groups[c] = []models.Armor{}
	}
	for _, a := range armor {
		groups[a.Class] = append(groups[a.Class], a)
	}
	return groups
}

// GroupAmmoByCaliber partitions ammo by the calibers that occur
func GroupAmmoByCaliber(ammo []models.Ammo) map[string][]models.Ammo {
	groups := make(map[string][]models.Ammo)
	for _, a := range ammo {
		groups[a.Caliber] = append(groups[a.Caliber], a)
	}
	return groups
}

// GroupMedicalByType partitions medical items by type, with every type present
func GroupMedicalByType(medical []models.Medical) map[models.MedicalItemType][]models.Medical {
	groups := make(map[models.MedicalItemType][]models.Medical)
	for _, t := range models.AllMedicalItemTypes() {
		groups[t] = []models.Medical{}
	}
	for _, m := range medical {
		groups[m.Type] = append(groups[m.Type], m)
	}
	return groups
}
