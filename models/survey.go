package models

import (
	"time"

	"surveyserver/apperr"
)

// Survey is one data collection visit to a site. At most one survey per site is the latest.
type Survey struct {
	Base
	Name      string `gorm:"type:varchar(100);not null;index" json:"name"`
	StartDate Date   `gorm:"not null" json:"start_date"`
	EndDate   Date   `gorm:"not null" json:"end_date"`
	SiteID    uint   `gorm:"not null;index" json:"site_id"`
	Site      *Site  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	IsLatest  bool   `gorm:"not null" json:"is_latest"`
}

func NewSurvey(name string, siteID uint, start, end time.Time, isLatest bool) *Survey {
	return &Survey{
		Name:      name,
		SiteID:    siteID,
		StartDate: Date(start),
		EndDate:   Date(end),
		IsLatest:  isLatest,
	}
}

func (Survey) EntityName() string { return "survey" }
func (s *Survey) GetName() string { return s.Name }

// CheckDates requires both dates and end >= start
func (s *Survey) CheckDates() error {
	start, end := time.Time(s.StartDate), time.Time(s.EndDate)
	if start.IsZero() {
		return apperr.InvalidArgument("start_date", "is required")
	}
	if end.IsZero() {
		return apperr.InvalidArgument("end_date", "is required")
	}
	if end.Before(start) {
		return apperr.InvalidArgument("end_date", "must not be before start_date")
	}
	return nil
}

type SurveyCreate struct {
	Name      string `json:"name" binding:"required,max=100"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
	IsLatest  bool   `json:"is_latest"`
}

func (c *SurveyCreate) Validate() error {
	if err := checkName(&c.Name); err != nil {
		return err
	}
	return c.Survey(0).CheckDates()
}

func (c *SurveyCreate) Survey(siteID uint) *Survey {
	return NewSurvey(c.Name, siteID, time.Time(c.StartDate), time.Time(c.EndDate), c.IsLatest)
}

type SurveyUpdate struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	StartDate *Date   `json:"start_date"`
	EndDate   *Date   `json:"end_date"`
	SiteID    *uint   `json:"site_id" binding:"omitempty,min=1"`
	IsLatest  *bool   `json:"is_latest"`
}

func (u *SurveyUpdate) Validate() error {
	return checkName(u.Name)
}

func (u *SurveyUpdate) Apply(s *Survey) {
	applyValue(u.Name, &s.Name)
	applyValue(u.StartDate, &s.StartDate)
	applyValue(u.EndDate, &s.EndDate)
	applyValue(u.SiteID, &s.SiteID)
	applyValue(u.IsLatest, &s.IsLatest)
}
