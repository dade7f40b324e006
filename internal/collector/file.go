package collector

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"MarketSignal/internal/model"
)

// Bar is the on-disk row for bar files. Timestamp is Unix milliseconds.
type Bar struct {
	Timestamp int64    `json:"t" parquet:"t"`
	Open      float64  `json:"o" parquet:"o"`
	High      float64  `json:"h" parquet:"h"`
	Low       float64  `json:"l" parquet:"l"`
	Close     float64  `json:"c" parquet:"c"`
	Volume    *float64 `json:"v,omitempty" parquet:"v,optional"`
}

// FileFetcher reads bars from a local .csv, .json or .parquet file.
// The symbol argument is ignored.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchBars(ctx context.Context, _ string, limit int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		rows []Bar
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".parquet":
		rows, err = parquet.ReadFile[Bar](f.Path)
	case ".json":
		rows, err = readJSONBars(f.Path)
	case ".csv":
		rows, err = readCSVBars(f.Path)
	default:
		return nil, errors.Errorf("file: unsupported extension %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "file: read %s", f.Path)
	}
	bars := make([]model.OHLCV, len(rows))
	for i, r := range rows {
		bars[i] = r.ohlcv()
	}
	model.SortBars(bars)
	return tail(bars, limit), nil
}

func (b Bar) ohlcv() model.OHLCV {
	vol := model.Value{}
	if b.Volume != nil {
		vol = model.Float(*b.Volume)
	}
	return model.OHLCV{
		Time:   time.UnixMilli(b.Timestamp).UTC(),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: vol,
	}
}

// ToBars converts bars into file rows. Undefined volume is left out.
func ToBars(bars []model.OHLCV) []Bar {
	out := make([]Bar, len(bars))
	for i, b := range bars {
		out[i] = Bar{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
		}
		if b.Volume.Valid() {
			v := b.Volume.Float
			out[i].Volume = &v
		}
	}
	return out
}

// SaveBars writes bars to path in the format named by its extension.
func SaveBars(path string, bars []model.OHLCV) error {
	rows := ToBars(bars)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return parquet.WriteFile(path, rows)
	case ".json":
		return createFile(path, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		})
	case ".csv":
		return createFile(path, func(w io.Writer) error { return writeCSVBars(w, rows) })
	default:
		return errors.Errorf("file: unsupported extension %q", ext)
	}
}

// createFile runs write against a new file at path. A failed Close is
// reported unless write already failed.
func createFile(path string, write func(io.Writer) error) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(fh)
}

func readJSONBars(path string) ([]Bar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []Bar
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

var csvHeader = []string{"t", "o", "h", "l", "c", "v"}

func writeCSVBars(w io.Writer, rows []Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		vol := ""
		if r.Volume != nil {
			vol = strconv.FormatFloat(*r.Volume, 'f', -1, 64)
		}
		rec := []string{
			strconv.FormatInt(r.Timestamp, 10),
			strconv.FormatFloat(r.Open, 'f', -1, 64),
			strconv.FormatFloat(r.High, 'f', -1, 64),
			strconv.FormatFloat(r.Low, 'f', -1, 64),
			strconv.FormatFloat(r.Close, 'f', -1, 64),
			vol,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSVBars expects a header row. Columns may be named t/o/h/l/c/v or
// date/open/high/low/close/volume; the time column holds Unix milliseconds
// or a date in one of the layouts of parseTime. Volume is optional.
func readCSVBars(path string) ([]Bar, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	col := map[string]int{}
	for i, name := range header {
		col[csvColumn(name)] = i
	}
	for _, need := range []string{"t", "o", "h", "l", "c"} {
		if _, ok := col[need]; !ok {
			return nil, errors.Errorf("missing column %q", need)
		}
	}

	var rows []Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var b Bar
		if b.Timestamp, err = parseTime(rec[col["t"]]); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		for _, fld := range []struct {
			key string
			dst *float64
		}{{"o", &b.Open}, {"h", &b.High}, {"l", &b.Low}, {"c", &b.Close}} {
			if *fld.dst, err = strconv.ParseFloat(rec[col[fld.key]], 64); err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
		}
		if i, ok := col["v"]; ok && i < len(rec) && rec[i] != "" {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			b.Volume = &v
		}
		rows = append(rows, b)
	}
	return rows, nil
}

func csvColumn(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "t", "time", "date", "timestamp":
		return "t"
	case "o", "open":
		return "o"
	case "h", "high":
		return "h"
	case "l", "low":
		return "l"
	case "c", "close":
		return "c"
	case "v", "volume":
		return "v"
	default:
		return name
	}
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTime(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, errors.Errorf("unrecognised time %q", s)
}
