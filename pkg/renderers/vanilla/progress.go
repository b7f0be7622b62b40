package vanilla

import (
	"strconv"
)

// RenderProgress renders the progress bar for a percentage. The width,
// aria-valuenow, and label all show the rounded value; only the width is
// clamped to [0,100].
func RenderProgress(progress float64) string {
	rounded := roundPercent(progress)
	value := strconv.Itoa(rounded)
	width := strconv.Itoa(clampPercent(rounded))

	return `<div class="` + string(ClassProgress) + `" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="` + value + `" data-fd-progress>` + "\n" +
		`    <div class="` + string(ClassProgressBar) + `" style="width: ` + width + `%"></div>` + "\n" +
		`    <span class="` + string(ClassProgressTxt) + `">` + value + `%</span>` + "\n" +
		`</div>` + "\n"
}
