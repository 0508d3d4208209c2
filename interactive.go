/*
 *  interactive.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/gobuffalo/packr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SyncScrollJS keeps x_range aligned with cb_obj, the range that just moved.
// Both ranges are expressed relative to the centers of their genes of
// interest; reverse mirrors the offset when the two genes lie on opposite
// strands.
const SyncScrollJS = `let start, end;
if (reverse) {
    start = my_center - cb_obj.start + other_center;
    end   = my_center - cb_obj.end   + other_center;
} else {
    start = cb_obj.start - my_center + other_center;
    end   = cb_obj.end   - my_center + other_center;
}
x_range.setv({start, end});`

// TapCallbackJS forwards the label of a clicked gene box or gene label to the
// page-level geneLabelClicked(label, cb_data), when there is one
const TapCallbackJS = `let label;
if (cb_data.target === "box" && typeof cb_data.feature.html != "undefined") {
    label = cb_data.feature.html;
} else if (cb_data.target === "text" && typeof cb_data.feature.label != "undefined") {
    label = cb_data.feature.label;
}
if (typeof label == "undefined") {
    console.log("Something was clicked on, but no label could be extracted!");
} else if (typeof geneLabelClicked == "undefined") {
    console.log(label, "was clicked, but function geneLabelClicked(label) is not implemented!");
} else {
    geneLabelClicked(label, cb_data);
}`

const (
	viewLevelHeight = 40
	viewTopMargin   = 36
	viewRuler       = 24
)

// ViewOptions control the interactive views
type ViewOptions struct {
	// Width is the nominal width in pixels, views scale with the page width
	Width int
	// Height in pixels, 0 derives it from the number of feature levels
	Height int
	// Viewspan is the initial half-width of the view around the gene, 0 shows
	// the whole crop window
	Viewspan int
	// AutoReverse flips views whose gene of interest is on the reverse strand
	AutoReverse bool
	// ClickHandler is JavaScript included in the page, typically defining
	// geneLabelClicked(label, cb_data)
	ClickHandler string
}

// DefaultViewOptions returns the options used when none are given
func DefaultViewOptions() ViewOptions {
	return ViewOptions{Width: 1200, AutoReverse: true}
}

// ViewFeature is a feature as shipped to the browser
type ViewFeature struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Strand   int    `json:"strand"`
	Label    string `json:"label,omitempty"`
	HTML     string `json:"html"`
	Color    string `json:"color"`
	LocusTag string `json:"locus_tag"`
	Level    int    `json:"level"`
	GOI      bool   `json:"goi,omitempty"`
}

// ViewLink makes the view follow the range changes of Target
type ViewLink struct {
	Target      string  `json:"target"`
	Reverse     bool    `json:"reverse"`
	MyCenter    float64 `json:"my_center"`
	OtherCenter float64 `json:"other_center"`
}

// Sync computes the range of the linked view after the view holding the link
// moved to [start, end], like SyncScrollJS does in the browser
func (r ViewLink) Sync(start, end float64) (float64, float64) {
	if r.Reverse {
		return r.MyCenter - start + r.OtherCenter, r.MyCenter - end + r.OtherCenter
	}
	return start - r.MyCenter + r.OtherCenter, end - r.MyCenter + r.OtherCenter
}

// View is the interactive rendering of one locus
type View struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	LocusTag     string        `json:"locus_tag"`
	ScaffoldID   string        `json:"scaffold_id"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	XRange       [2]float64    `json:"x_range"`
	CropWindow   [2]int        `json:"crop_window"`
	GeneLocation int           `json:"gene_location"`
	IsBackward   bool          `json:"is_backward"`
	Features     []ViewFeature `json:"features"`
	Links        []ViewLink    `json:"links"`
}

// View builds the interactive view of the locus, the initial range being
// the crop window or Viewspan bases around the gene
func (r *Locus) View(opts ViewOptions) (*View, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultViewOptions().Width
	}
	backward, err := r.IsBackward()
	if err != nil {
		return nil, err
	}

	v := &View{
		ID:           uuid.New().String(),
		Title:        r.Title,
		LocusTag:     r.LocusTag,
		ScaffoldID:   r.ScaffoldID,
		Width:        opts.Width,
		CropWindow:   r.CropWindow,
		GeneLocation: r.GeneLocation,
		IsBackward:   backward,
		Links:        []ViewLink{},
	}
	mid := float64(r.GeneLocation)
	// Backward loci are flipped with or without Viewspan, so a whole crop
	// window is shown end-first too.
	switch {
	case opts.Viewspan <= 0 && opts.AutoReverse && backward:
		v.XRange = [2]float64{float64(r.CropWindow[1]), float64(r.CropWindow[0])}
	case opts.Viewspan <= 0:
		v.XRange = [2]float64{float64(r.CropWindow[0]), float64(r.CropWindow[1])}
	case opts.AutoReverse && backward:
		v.XRange = [2]float64{mid + float64(opts.Viewspan), mid - float64(opts.Viewspan)}
	default:
		v.XRange = [2]float64{mid - float64(opts.Viewspan), mid + float64(opts.Viewspan)}
	}

	extents := make([]extent, len(r.Record.Features))
	for i, f := range r.Record.Features {
		extents[i] = extent{left: float64(f.Start), right: float64(f.End)}
	}
	levels, nLevels := assignLevels(extents, 1)
	v.Features = make([]ViewFeature, len(r.Record.Features))
	for i, f := range r.Record.Features {
		v.Features[i] = ViewFeature{
			Start:    f.Start,
			End:      f.End,
			Strand:   f.Strand,
			HTML:     f.HTML,
			Color:    f.Color,
			LocusTag: f.LocusTag(),
			Level:    levels[i],
			GOI:      f.LocusTag() == r.LocusTag,
		}
		if f.HasLabel {
			v.Features[i].Label = f.Label
		}
	}

	v.Height = opts.Height
	if v.Height <= 0 {
		v.Height = viewTopMargin + max(nLevels, 1)*viewLevelHeight + viewRuler
	}
	return v, nil
}

// Views builds one view per locus. The first view and each of the other views
// follow each other's ranges; with AutoReverse, loci whose genes lie on
// opposite strands scroll in mirrored directions.
func (r *Loci) Views(opts ViewOptions) ([]*View, error) {
	views := make([]*View, 0, len(r.Loci))
	for _, locus := range r.Loci {
		v, err := locus.View(opts)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", locus)
		}
		views = append(views, v)
		if len(views) == 1 {
			continue
		}
		first := views[0]
		reverse := opts.AutoReverse && first.IsBackward != v.IsBackward
		first.Links = append(first.Links, ViewLink{
			Target:      v.ID,
			Reverse:     reverse,
			MyCenter:    float64(first.GeneLocation),
			OtherCenter: float64(v.GeneLocation),
		})
		v.Links = append(v.Links, ViewLink{
			Target:      first.ID,
			Reverse:     reverse,
			MyCenter:    float64(v.GeneLocation),
			OtherCenter: float64(first.GeneLocation),
		})
	}
	return views, nil
}

// page is the data of templates/loci.html
type page struct {
	Title        string
	Version      string
	Views        template.JS
	SyncScroll   template.JS
	TapCallback  template.JS
	ClickHandler template.JS
}

// loadTemplate reads the page template from the packr box
func loadTemplate() (*template.Template, error) {
	box := packr.NewBox("./templates")
	s, err := box.FindString("loci.html")
	if err != nil {
		return nil, errors.Wrap(err, "cannot load template loci.html")
	}
	return template.New("loci.html").Parse(s)
}

// PlotInteractive writes a self-contained HTML page with linked, pannable and
// zoomable views of all loci
func (r *Loci) PlotInteractive(w io.Writer, opts ViewOptions) error {
	views, err := r.Views(opts)
	if err != nil {
		return err
	}
	return writePage(w, r.String(), views, opts)
}

func writePage(w io.Writer, title string, views []*View, opts ViewOptions) error {
	tmpl, err := loadTemplate()
	if err != nil {
		return err
	}
	data, err := json.Marshal(views)
	if err != nil {
		return errors.Wrap(err, "cannot serialize views")
	}
	p := page{
		Title:        title,
		Version:      Version,
		Views:        template.JS(data),
		SyncScroll:   template.JS(SyncScrollJS),
		TapCallback:  template.JS(TapCallbackJS),
		ClickHandler: template.JS(opts.ClickHandler),
	}
	if err := tmpl.Execute(w, p); err != nil {
		return errors.Wrap(err, "cannot render page")
	}
	return nil
}
