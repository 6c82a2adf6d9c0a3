package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/meur/battlebuddy/internal/models"
)

func filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// handleSearchItems returns items whose name matches ?q= across all categories
func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items, ok := await(r, func(ctx context.Context, h func([]models.Item)) {
		s.db.AllItemsWithSearchQuery(ctx, query, h)
	})
	if !ok {
		return
	}
	respondList(w, items)
}

// handleGetFirearms returns firearms, optionally narrowed by ?type= and ?caliber=
func (s *Server) handleGetFirearms(w http.ResponseWriter, r *http.Request) {
	firearmType := models.FirearmType(r.URL.Query().Get("type"))
	caliber := r.URL.Query().Get("caliber")
	if firearmType != "" && !firearmType.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown firearm type")
		return
	}

	var firearms []models.Firearm
	var ok bool
	switch {
	case firearmType != "":
		firearms, ok = await(r, func(ctx context.Context, h func([]models.Firearm)) {
			s.db.AllFirearmsOfType(ctx, firearmType, h)
		})
		if caliber != "" {
			firearms = filter(firearms, func(f models.Firearm) bool { return f.Caliber == caliber })
		}
	case caliber != "":
		firearms, ok = await(r, func(ctx context.Context, h func([]models.Firearm)) {
			s.db.AllFirearmsOfCaliber(ctx, caliber, h)
		})
	default:
		firearms, ok = await(r, s.db.AllFirearms)
	}
	if !ok {
		return
	}
	respondList(w, firearms)
}

func (s *Server) handleGetFirearmsByType(w http.ResponseWriter, r *http.Request) {
	groups, ok := await(r, s.db.AllFirearmsByType)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetArmor(w http.ResponseWriter, r *http.Request) {
	armor, ok := await(r, s.db.AllArmor)
	if !ok {
		return
	}
	respondList(w, armor)
}

func (s *Server) handleGetArmorByClass(w http.ResponseWriter, r *http.Request) {
	groups, ok := await(r, s.db.AllArmorByClass)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// handleGetBodyArmor returns body armor, optionally narrowed by ?class= and ?material=
func (s *Server) handleGetBodyArmor(w http.ResponseWriter, r *http.Request) {
	var class models.ArmorClass
	if v := r.URL.Query().Get("class"); v != "" {
		n, err := strconv.Atoi(v)
		class = models.ArmorClass(n)
		if err != nil || !class.Valid() {
			respondError(w, http.StatusBadRequest, "Armor class must be between 1 and 6")
			return
		}
	}
	material := models.ArmorMaterial(r.URL.Query().Get("material"))
	if material != "" && !material.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown armor material")
		return
	}

	var armor []models.Armor
	var ok bool
	switch {
	case class != 0:
		armor, ok = await(r, func(ctx context.Context, h func([]models.Armor)) {
			s.db.AllBodyArmorOfClass(ctx, class, h)
		})
		if material != "" {
			armor = filter(armor, func(a models.Armor) bool { return a.Material == material })
		}
	case material != "":
		armor, ok = await(r, func(ctx context.Context, h func([]models.Armor)) {
			s.db.AllBodyArmorWithMaterial(ctx, material, h)
		})
	default:
		armor, ok = await(r, s.db.AllBodyArmor)
	}
	if !ok {
		return
	}
	respondList(w, armor)
}

func (s *Server) handleGetBodyArmorByClass(w http.ResponseWriter, r *http.Request) {
	groups, ok := await(r, s.db.AllBodyArmorByClass)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// handleGetAmmo returns ammo, optionally narrowed by ?caliber=
func (s *Server) handleGetAmmo(w http.ResponseWriter, r *http.Request) {
	caliber := r.URL.Query().Get("caliber")

	var ammo []models.Ammo
	var ok bool
	if caliber != "" {
		ammo, ok = await(r, func(ctx context.Context, h func([]models.Ammo)) {
			s.db.AllAmmoOfCaliber(ctx, caliber, h)
		})
	} else {
		ammo, ok = await(r, s.db.AllAmmo)
	}
	if !ok {
		return
	}
	respondList(w, ammo)
}

func (s *Server) handleGetAmmoByCaliber(w http.ResponseWriter, r *http.Request) {
	groups, ok := await(r, s.db.AllAmmoByCaliber)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetMedical(w http.ResponseWriter, r *http.Request) {
	medical, ok := await(r, s.db.AllMedical)
	if !ok {
		return
	}
	respondList(w, medical)
}

func (s *Server) handleGetMedicalByType(w http.ResponseWriter, r *http.Request) {
	groups, ok := await(r, s.db.AllMedicalByType)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetThrowables(w http.ResponseWriter, r *http.Request) {
	throwables, ok := await(r, s.db.AllThrowables)
	if !ok {
		return
	}
	respondList(w, throwables)
}

func (s *Server) handleGetMelee(w http.ResponseWriter, r *http.Request) {
	melee, ok := await(r, s.db.AllMelee)
	if !ok {
		return
	}
	respondList(w, melee)
}
