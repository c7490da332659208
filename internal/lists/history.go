package lists

import (
	"coalition_site/internal/model"
	"coalition_site/internal/richtext"
)

const historySlice = "history"

// historyItem is one entry of a history slice. The CMS stores up to five
// milestones per item as numbered fields.
type historyItem struct {
	Year1  model.RichText `json:"year1"`
	Month1 model.RichText `json:"month1"`
	Title1 model.RichText `json:"title1"`
	Text1  model.RichText `json:"text1"`
	Year2  model.RichText `json:"year2"`
	Month2 model.RichText `json:"month2"`
	Title2 model.RichText `json:"title2"`
	Text2  model.RichText `json:"text2"`
	Year3  model.RichText `json:"year3"`
	Month3 model.RichText `json:"month3"`
	Title3 model.RichText `json:"title3"`
	Text3  model.RichText `json:"text3"`
	Year4  model.RichText `json:"year4"`
	Month4 model.RichText `json:"month4"`
	Title4 model.RichText `json:"title4"`
	Text4  model.RichText `json:"text4"`
	Year5  model.RichText `json:"year5"`
	Month5 model.RichText `json:"month5"`
	Title5 model.RichText `json:"title5"`
	Text5  model.RichText `json:"text5"`
}

type milestone struct {
	year, month, title, text model.RichText
}

// milestones returns the numbered fields of it in order.
func (it historyItem) milestones() [5]milestone {
	return [5]milestone{
		{it.Year1, it.Month1, it.Title1, it.Text1},
		{it.Year2, it.Month2, it.Title2, it.Text2},
		{it.Year3, it.Month3, it.Title3, it.Text3},
		{it.Year4, it.Month4, it.Title4, it.Text4},
		{it.Year5, it.Month5, it.Title5, it.Text5},
	}
}

type historySliceData struct {
	SliceType string `json:"slice_type"`
	Primary   struct {
		Items []historyItem `json:"items"`
	} `json:"primary"`
}

type historyData struct {
	Slices []historySliceData `json:"slices"`
}

// DecodeTimeline reads the milestones of every history slice of doc, in
// document order. Milestones with no content at all are dropped.
func DecodeTimeline(doc model.Document) []model.TimelineEntry {
	var d historyData
	decodeData(doc, &d)

	out := []model.TimelineEntry{}
	for _, s := range d.Slices {
		if s.SliceType != "" && s.SliceType != historySlice {
			continue
		}
		for _, it := range s.Primary.Items {
			for _, m := range it.milestones() {
				e := model.TimelineEntry{
					Year:  richtext.PlainText(m.year),
					Month: richtext.PlainText(m.month),
					Title: richtext.PlainText(m.title),
					Text:  richtext.PlainText(m.text),
				}
				if e == (model.TimelineEntry{}) {
					continue
				}
				out = append(out, e)
			}
		}
	}
	return out
}
