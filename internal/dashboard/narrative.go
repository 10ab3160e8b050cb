package dashboard

import (
	"fmt"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/dataset"
)

const AppTitle = "Video Game Sales Data Analysis"

var introText = []string{
	"This dashboard explores a dataset of video games with sales greater than 100,000 copies. " +
		"Each row lists a game's rank, platform, release year, genre and publisher together with its sales " +
		"in North America, Europe, Japan, the rest of the world and globally, in millions of units.",
	"Use the sidebar to move between the dataset overview, the visualizations and the conclusion. " +
		"Rows with any missing field are dropped before analysis.",
}

var conclusionText = []string{
	"North America is the largest single market in the dataset and its sales track global sales closely, " +
		"which the correlation heatmap shows as the strongest pairwise relationship.",
	"Sales are heavily skewed: most titles sell well under one million units per region while a handful of " +
		"blockbusters, led by Nintendo releases, dominate every top-10 chart.",
	"Japan stands apart. Its best sellers differ from the other regions and its sales correlate least with the rest.",
}

var regionText = map[analysis.Region]string{
	analysis.Global:       "These are the top 10 video games based on total global sales. The chart shows the distribution of sales among the best-selling games worldwide.",
	analysis.NorthAmerica: "These are the top 10 video games based on sales in North America. The chart highlights how each game performed in this region.",
	analysis.Europe:       "These are the top 10 video games based on sales in Europe. The pie chart shows the market share of each game in this region.",
	analysis.Japan:        "These are the top 10 video games based on sales in Japan. The chart represents the dominance of various titles in the Japanese market.",
}

// PieIntro sits above the region selector.
const PieIntro = "Pie charts of the top 10 best-selling video games, segmented by Global Sales, " +
	"North America (NA) Sales, Europe (EU) Sales and Japan (JP) Sales."

// IntroText is the Introduction section body.
func IntroText() []string { return append([]string(nil), introText...) }

// ConclusionText is the Conclusion section body.
func ConclusionText() []string { return append([]string(nil), conclusionText...) }

// RegionText describes the pie chart of r.
func RegionText(r analysis.Region) string { return regionText[r] }

// RegionHeading is the subheading above the pie chart of r.
func RegionHeading(r analysis.Region, n int) string {
	if r == analysis.Global {
		return fmt.Sprintf("Top %d Global Sales by Game", n)
	}
	return fmt.Sprintf("Top %d Sales in %s by Game", n, r)
}

// PieTitle is the title drawn on the pie chart of r.
func PieTitle(r analysis.Region, n int) string {
	if r == analysis.Global {
		return fmt.Sprintf("Top %d Total Global Sales by Game", n)
	}
	return fmt.Sprintf("Top %d Sales in %s", n, r)
}

// DistributionTitle is the bar chart title for a column and policy.
func DistributionTitle(c dataset.Column, p analysis.Policy) string {
	if p == analysis.PolicyTop10 {
		return fmt.Sprintf("Top 10 Games by %s", Label(c))
	}
	return fmt.Sprintf("%s Bar Plot", Label(c))
}
