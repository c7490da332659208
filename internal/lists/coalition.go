package lists

import (
	"strconv"

	"coalition_site/internal/filter"
	"coalition_site/internal/listing"
	"coalition_site/internal/model"
	"coalition_site/internal/richtext"
)

type countryData struct {
	Name         model.RichText `json:"country_name"`
	Description  model.RichText `json:"description"`
	Region       string         `json:"region"`
	Partners     int            `json:"partners"`
	PartnersList model.RichText `json:"partners_list"`
	Flag         model.Image    `json:"country_flag"`
}

// DecodeCountry maps a coalition document to a CoalitionCountry.
func DecodeCountry(doc model.Document) model.CoalitionCountry {
	var d countryData
	decodeData(doc, &d)
	return model.CoalitionCountry{
		UID:          doc.UID,
		Name:         d.Name,
		Description:  d.Description,
		Region:       d.Region,
		Partners:     d.Partners,
		PartnersList: d.PartnersList,
		Flag:         d.Flag,
	}
}

func region(id, label string) filter.Option {
	return filter.Option{ID: id, Label: label, Spec: filter.ByRegion(label)}
}

// Coalition is the partner-country list: pages of three with region tabs.
var Coalition = &Binding[model.CoalitionCountry]{
	DocType: model.KindCoalition,
	Slug:    "coalition",
	Heading: "Coalition Partners",
	Prefix:  "/coalition",
	Window:  listing.Pages(3),
	FilterSet: []filter.Option{
		{ID: "all", Label: "All", Spec: filter.All()},
		region("north-africa", "North Africa"),
		region("east-africa", "East Africa"),
		region("west-africa", "West Africa"),
		region("central-africa", "Central Africa"),
		region("south-africa", "South Africa"),
	},
	SortSet: []listing.SortOption{
		{ID: "default", Label: "Sort by", Key: listing.SortDefault},
		{ID: "name_asc", Label: "Name (A-Z)", Key: listing.SortTitleAsc},
		{ID: "name_desc", Label: "Name (Z-A)", Key: listing.SortTitleDesc},
		{ID: "partners_asc", Label: "Partners (Low to High)", Key: listing.SortCountAsc},
		{ID: "partners_desc", Label: "Partners (High to Low)", Key: listing.SortCountDesc},
	},
	EmptyMsg: "No countries found for the selected region.",
	Decode:   DecodeCountry,
	Accessors: listing.Accessors[model.CoalitionCountry]{
		ID:     func(c model.CoalitionCountry) string { return c.UID },
		Title:  func(c model.CoalitionCountry) string { return richtext.PlainText(c.Name) },
		Region: func(c model.CoalitionCountry) string { return c.Region },
		Count:  func(c model.CoalitionCountry) int { return c.Partners },
	},
	Card: func(c model.CoalitionCountry, href string) model.Card {
		return model.Card{
			ID:       c.UID,
			Title:    richtext.PlainText(c.Name),
			Href:     href,
			Summary:  partnersLabel(c.Partners),
			Badge:    c.Region,
			ImageURL: c.Flag.URL,
			ImageAlt: c.Flag.Alt,
			HasImage: richtext.HasImage(c.Flag),
		}
	},
	Details: func(c model.CoalitionCountry, href string) Detail {
		d := Detail{
			Card: model.Card{
				ID:       c.UID,
				Title:    richtext.PlainText(c.Name),
				Href:     href,
				Badge:    c.Region,
				ImageURL: c.Flag.URL,
				ImageAlt: c.Flag.Alt,
				HasImage: richtext.HasImage(c.Flag),
			},
			Body: richtext.PlainText(c.Description),
			Fields: []Field{
				{Label: "Partners", Value: strconv.Itoa(c.Partners)},
			},
		}
		if list := richtext.PlainText(c.PartnersList); list != "" {
			d.Fields = append(d.Fields, Field{Label: "Partner organisations", Value: list})
		}
		return d
	},
}

func partnersLabel(n int) string {
	if n == 1 {
		return "1 partner"
	}
	return strconv.Itoa(n) + " partners"
}
