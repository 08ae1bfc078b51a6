// Package notion maps confirmed jobs onto the Notion pages API and performs
// the single outbound write per save request.
package notion

import (
	"job-clipper-go/internal/models"
)

// PropertyMap names the remote database properties each field is written to.
// Names are user-configurable; the property *types* are fixed by the mapper
// and must match the remote schema.
type PropertyMap struct {
	Company         string `json:"company"`
	Position        string `json:"position"`
	Status          string `json:"status"`
	ApplicationDate string `json:"applicationDate"`
	Location        string `json:"location"`
}

// DefaultPropertyMap returns the conventional property names.
func DefaultPropertyMap() PropertyMap {
	return PropertyMap{
		Company:         "Company Name",
		Position:        "Position",
		Status:          "Status",
		ApplicationDate: "Application Date",
		Location:        "Location",
	}
}

// Merge overlays non-empty names from o on top of m.
func (m PropertyMap) Merge(o PropertyMap) PropertyMap {
	if o.Company != "" {
		m.Company = o.Company
	}
	if o.Position != "" {
		m.Position = o.Position
	}
	if o.Status != "" {
		m.Status = o.Status
	}
	if o.ApplicationDate != "" {
		m.ApplicationDate = o.ApplicationDate
	}
	if o.Location != "" {
		m.Location = o.Location
	}
	return m
}

// Typed property value wrappers, shaped exactly as the pages API expects.

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Text textContent `json:"text"`
}

type titleValue struct {
	Title []richText `json:"title"`
}

type richTextValue struct {
	RichText []richText `json:"rich_text"`
}

type selectValue struct {
	Select selectOption `json:"select"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Date dateStart `json:"date"`
}

type dateStart struct {
	Start string `json:"start"`
}

// Properties is the typed payload sent under "properties".
type Properties map[string]any

// BuildProperties converts a confirmed job into the remote property payload.
// Only present, non-empty fields produce entries; the remote schema may
// reject property shapes it does not know, so absent fields emit nothing.
// Type rules are fixed: company is the title, position and location are
// rich text, status is a select, the application date is a date truncated
// to its calendar-day component.
func BuildProperties(job models.ConfirmedJob, propMap PropertyMap) Properties {
	props := Properties{}

	if job.Position != "" && propMap.Position != "" {
		props[propMap.Position] = richTextValue{RichText: []richText{{Text: textContent{Content: job.Position}}}}
	}
	if job.Company != "" && propMap.Company != "" {
		props[propMap.Company] = titleValue{Title: []richText{{Text: textContent{Content: job.Company}}}}
	}
	if job.Status != "" && propMap.Status != "" {
		props[propMap.Status] = selectValue{Select: selectOption{Name: job.Status}}
	}
	if job.ApplicationDate != "" && propMap.ApplicationDate != "" {
		props[propMap.ApplicationDate] = dateValue{Date: dateStart{Start: calendarDate(job.ApplicationDate)}}
	}
	if job.Location != "" && propMap.Location != "" {
		props[propMap.Location] = richTextValue{RichText: []richText{{Text: textContent{Content: job.Location}}}}
	}

	return props
}

// calendarDate truncates an ISO-8601 timestamp to its date component.
func calendarDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
