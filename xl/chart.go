package xl

// ChartType selects the chart family and its stacking subtype.
type ChartType int

const (
	ChartArea ChartType = iota + 1
	ChartAreaStacked
	ChartAreaStackedPercent
	ChartBar
	ChartBarStacked
	ChartBarStackedPercent
	ChartColumn
	ChartColumnStacked
	ChartColumnStackedPercent
	ChartLine
)

var chartTypeNames = map[ChartType]string{
	ChartArea:                 "area",
	ChartAreaStacked:          "area_stacked",
	ChartAreaStackedPercent:   "area_stacked_percent",
	ChartBar:                  "bar",
	ChartBarStacked:           "bar_stacked",
	ChartBarStackedPercent:    "bar_stacked_percent",
	ChartColumn:               "column",
	ChartColumnStacked:        "column_stacked",
	ChartColumnStackedPercent: "column_stacked_percent",
	ChartLine:                 "line",
}

func (t ChartType) String() string {
	if s, ok := chartTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseChartType is the inverse of ChartType.String.
func ParseChartType(s string) (ChartType, bool) {
	for t, n := range chartTypeNames {
		if n == s {
			return t, true
		}
	}
	return 0, false
}

// ChartSubtype is the stacking variant derived from the chart type.
type ChartSubtype int

const (
	SubtypeNormal ChartSubtype = iota
	SubtypeStacked
	SubtypePercentStacked
)

func (t ChartType) Subtype() ChartSubtype {
	switch t {
	case ChartAreaStacked, ChartBarStacked, ChartColumnStacked:
		return SubtypeStacked
	case ChartAreaStackedPercent, ChartBarStackedPercent, ChartColumnStackedPercent:
		return SubtypePercentStacked
	}
	return SubtypeNormal
}

// Grouping is the value of the c:grouping element.
type Grouping int

const (
	GroupingClustered Grouping = iota
	GroupingStandard
	GroupingStacked
	GroupingPercentStacked
)

func (g Grouping) String() string {
	switch g {
	case GroupingStandard:
		return "standard"
	case GroupingStacked:
		return "stacked"
	case GroupingPercentStacked:
		return "percentStacked"
	}
	return "clustered"
}

// AxisPosition is the value of the c:axPos element.
type AxisPosition int

const (
	AxisBottom AxisPosition = iota
	AxisLeft
	AxisRight
	AxisTop
)

func (p AxisPosition) String() string {
	switch p {
	case AxisLeft:
		return "l"
	case AxisRight:
		return "r"
	case AxisTop:
		return "t"
	}
	return "b"
}

func (p AxisPosition) vertical() bool {
	return p == AxisLeft || p == AxisRight
}

// CrossBetween is the value of the c:crossBetween element.
type CrossBetween int

const (
	CrossBetweenCategories CrossBetween = iota
	CrossBetweenMidCategory
)

func (c CrossBetween) String() string {
	if c == CrossBetweenMidCategory {
		return "midCat"
	}
	return "between"
}

// ChartLayout holds every type dependent serialization setting. It is a pure
// function of the chart type, so serializing a chart twice yields the same output.
type ChartLayout struct {
	Grouping        Grouping
	CrossBetween    CrossBetween
	CatAxisPosition AxisPosition
	ValAxisPosition AxisPosition
	HasOverlap      bool
	HasMarkers      bool
	CatNumFormat    string
	ValNumFormat    string
}

const (
	defaultNumFormat = "General"
	percentNumFormat = "0%"
	seriesOverlap    = 100
)

func defaultLayout() ChartLayout {
	return ChartLayout{
		Grouping:        GroupingClustered,
		CrossBetween:    CrossBetweenCategories,
		CatAxisPosition: AxisBottom,
		ValAxisPosition: AxisLeft,
		CatNumFormat:    defaultNumFormat,
		ValNumFormat:    defaultNumFormat,
	}
}

func stackedGrouping(st ChartSubtype) Grouping {
	switch st {
	case SubtypeStacked:
		return GroupingStacked
	case SubtypePercentStacked:
		return GroupingPercentStacked
	}
	return GroupingClustered
}

// Layout returns the serialization settings for chart type t.
func (t ChartType) Layout() ChartLayout {
	l := defaultLayout()
	st := t.Subtype()
	if st == SubtypePercentStacked {
		l.ValNumFormat = percentNumFormat
	}
	switch t {
	case ChartArea, ChartAreaStacked, ChartAreaStackedPercent:
		l.Grouping = GroupingStandard
		if st != SubtypeNormal {
			l.Grouping = stackedGrouping(st)
		}
		l.CrossBetween = CrossBetweenMidCategory
	case ChartBar, ChartBarStacked, ChartBarStackedPercent:
		l.Grouping = stackedGrouping(st)
		l.HasOverlap = st != SubtypeNormal
		l.CatAxisPosition = AxisLeft
		l.ValAxisPosition = AxisBottom
	case ChartColumn, ChartColumnStacked, ChartColumnStackedPercent:
		l.Grouping = stackedGrouping(st)
		l.HasOverlap = st != SubtypeNormal
	case ChartLine:
		l.Grouping = GroupingStandard
		l.HasMarkers = true
	}
	return l
}

// ChartFont sets the font of a chart title or of axis labels. Zero fields
// keep the application defaults.
type ChartFont struct {
	Name   string
	Size   float64 // points
	Bold   bool
	Italic bool
}

// ChartAxis holds the optional title of an axis and its fonts.
type ChartAxis struct {
	Name     string     // axis title, none when empty
	NameFont *ChartFont // font of the axis title
	NumFont  *ChartFont // font of the tick labels
}

// Chart is a chart with an ordered list of series and a pair of axes.
// XAxis is the category axis and YAxis the value axis.
type Chart struct {
	Type      ChartType
	Series    []*Series
	Title     string
	TitleFont *ChartFont
	XAxis     ChartAxis
	YAxis     ChartAxis

	id       int // package part number, 1-based creation order
	axisIDs  [2]int
	inserted bool
}

// Series references a category range and a value range.
type Series struct {
	Categories *SeriesRange
	Values     *SeriesRange
}

// SeriesRange is a reference to worksheet data plus an optional numeric cache
// that viewers use before the formula is recalculated.
type SeriesRange struct {
	Formula string // without the leading '='

	cache []float64
}

func newChart(t ChartType, id int) *Chart {
	return &Chart{Type: t, id: id}
}

// ID returns the package part number of the chart.
func (ch *Chart) ID() int { return ch.id }

// AddSeries appends a series. Either reference may be empty; a leading '='
// is stripped.
func (ch *Chart) AddSeries(categories, values string) *Series {
	s := &Series{
		Categories: newSeriesRange(categories),
		Values:     newSeriesRange(values),
	}
	ch.Series = append(ch.Series, s)
	return s
}

func newSeriesRange(ref string) *SeriesRange {
	if len(ref) > 0 && ref[0] == '=' {
		ref = ref[1:]
	}
	r := &SeriesRange{Formula: ref}
	r.InitDataCache()
	return r
}

// InitDataCache clears the data cache; the consumer then recomputes from the formula.
func (r *SeriesRange) InitDataCache() {
	r.cache = []float64{}
}

// SetDataCache replaces the cache with values, one point per referenced cell.
func (r *SeriesRange) SetDataCache(values []float64) {
	r.cache = append(r.cache[:0], values...)
}

// DataCache returns the cached points.
func (r *SeriesRange) DataCache() []float64 {
	return r.cache
}

const axisIDBase = 50_010_000

// AxisIDs returns the category and value axis ids, allocating them on first
// use. They are derived from the chart id and never change afterwards.
func (ch *Chart) AxisIDs() (cat, val int) {
	if ch.axisIDs[0] == 0 {
		ch.axisIDs[0] = axisIDBase + ch.id + 1
		ch.axisIDs[1] = ch.axisIDs[0] + 1
	}
	return ch.axisIDs[0], ch.axisIDs[1]
}

func (ch *Chart) knownType() bool {
	_, ok := chartTypeNames[ch.Type]
	return ok
}
