package services

import (
	"context"

	"gorm.io/gorm"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/models"
)

func (s *Service) ListSites(ctx context.Context, opts db.ListOptions, rootsOnly bool) ([]models.Site, error) {
	var scopes []db.Scope
	if rootsOnly {
		scopes = append(scopes, db.Where("parent_site_id IS NULL"))
	}
	return db.List[models.Site](s.read(ctx), opts, scopes...)
}

func (s *Service) ListSubSites(ctx context.Context, siteID uint, opts db.ListOptions) ([]models.Site, error) {
	tx := s.read(ctx)
	if err := db.Require[models.Site](tx, siteID, ""); err != nil {
		return nil, err
	}
	return db.List[models.Site](tx, opts, db.Where("parent_site_id = ?", siteID))
}

func (s *Service) CreateSite(ctx context.Context, site *models.Site) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := checkParent(tx, site); err != nil {
			return err
		}
		return db.Create(tx, site)
	})
}

func (s *Service) UpdateSite(ctx context.Context, id uint, update *models.SiteUpdate) (*models.Site, error) {
	var site *models.Site
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if site, err = db.Get[models.Site](tx, id); err != nil {
			return err
		}
		update.Apply(site)
		if err = checkParent(tx, site); err != nil {
			return err
		}
		return db.Update(tx, site)
	})
	return site, err
}

// DeleteSite refuses while surveys exist on the site or its sub-sites, or while sub-sites exist
func (s *Service) DeleteSite(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Site](tx, id, ""); err != nil {
			return err
		}
		subSites := tx.Model(&models.Site{}).Select("id").Where("parent_site_id = ?", id)
		surveys, err := db.Count[models.Survey](tx, db.Where("site_id = ? OR site_id IN (?)", id, subSites))
		if err != nil {
			return err
		}
		if surveys > 0 {
			return apperr.HasDependents("site", id, "surveys")
		}
		children, err := db.Count[models.Site](tx, db.Where("parent_site_id = ?", id))
		if err != nil {
			return err
		}
		if children > 0 {
			return apperr.HasDependents("site", id, "sub_sites")
		}
		return db.Delete[models.Site](tx, id)
	})
}

// checkParent keeps the hierarchy at two levels: root sites and their direct sub-sites
func checkParent(tx *gorm.DB, site *models.Site) error {
	if site.ParentSiteID == nil {
		return nil
	}
	parentID := *site.ParentSiteID
	if site.ID != 0 && parentID == site.ID {
		return apperr.HierarchyTooDeep(site.ID, "parent_site_id", "a site cannot be its own parent")
	}
	parent, err := reference[models.Site](tx, parentID, "parent_site_id")
	if err != nil {
		return err
	}
	if !parent.IsRoot() {
		return apperr.HierarchyTooDeep(site.ID, "parent_site_id", "parent site is itself a sub-site")
	}
	if site.ID == 0 {
		return nil
	}
	children, err := db.Count[models.Site](tx, db.Where("parent_site_id = ?", site.ID))
	if err != nil {
		return err
	}
	if children > 0 {
		return apperr.HierarchyTooDeep(site.ID, "parent_site_id", "a site with sub-sites cannot become a sub-site")
	}
	return nil
}
