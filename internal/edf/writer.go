package edf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Annotation is one event destined for the EDF+ annotations channel.
type Annotation struct {
	Onset    float64 // seconds from recording start
	Duration float64 // seconds; point events are 0
	Label    string
}

// TAL delimiters per the EDF+ specification.
const (
	talDuration  = 0x15
	talSeparator = 0x14
)

// annotationsLabel names the synthetic annotations signal.
const annotationsLabel = "EDF Annotations"

// WriteFile serializes a header, a channel-major sample matrix and an event
// list as an EDF+ file. The matrix is re-chunked into data records; a final
// partial record is zero-filled. An annotations signal carrying one
// timekeeping TAL per record plus the event TALs is appended after the data
// signals.
func WriteFile(path string, hdr *Header, data [][]float64, annotations []Annotation) error {
	if len(data) != len(hdr.Signals) {
		return fmt.Errorf("expected %d channels, got %d", len(hdr.Signals), len(data))
	}

	recordDuration := hdr.RecordDuration
	if math.IsNaN(recordDuration) || recordDuration <= 0 {
		recordDuration = 1.0
	}

	records := recordCount(hdr, data)
	tals := buildTALs(records, recordDuration, annotations)

	annBytes := 0
	for _, tal := range tals {
		if len(tal) > annBytes {
			annBytes = len(tal)
		}
	}
	annBytes = (annBytes + 1) / 2 * 2
	if annBytes < 16 {
		annBytes = 16
	}

	out := *hdr
	out.Version = "0"
	out.Reserved = "EDF+C"
	out.Records = records
	out.RecordDuration = recordDuration
	out.SignalCount = len(hdr.Signals) + 1
	out.Signals = append(append([]SignalHeader{}, hdr.Signals...), SignalHeader{
		Label:            annotationsLabel,
		PhysicalMin:      -1,
		PhysicalMax:      1,
		DigitalMin:       -32768,
		DigitalMax:       32767,
		SamplesPerRecord: annBytes / 2,
	})
	out.HeaderBytes = mainHeaderSize + out.SignalCount*signalHeaderSize

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeHeader(w, &out); err != nil {
		return err
	}

	for rec := 0; rec < records; rec++ {
		for sig := range hdr.Signals {
			sh := hdr.Signals[sig]
			base := rec * sh.SamplesPerRecord
			for s := 0; s < sh.SamplesPerRecord; s++ {
				var sample float64
				if base+s < len(data[sig]) {
					sample = data[sig][base+s]
				}
				digital := physicalToDigital(sample, sh)
				if err := binary.Write(w, binary.LittleEndian, digital); err != nil {
					return err
				}
			}
		}

		tal := make([]byte, annBytes)
		copy(tal, tals[rec])
		if _, err := w.Write(tal); err != nil {
			return err
		}
	}

	return w.Flush()
}

// recordCount derives the record count from channel 0. A trailing partial
// record still counts; the writer zero-fills it.
func recordCount(hdr *Header, data [][]float64) int {
	if len(hdr.Signals) == 0 || hdr.Signals[0].SamplesPerRecord <= 0 || len(data) == 0 {
		return 0
	}
	spr := hdr.Signals[0].SamplesPerRecord
	return (len(data[0]) + spr - 1) / spr
}

// buildTALs groups annotations into per-record payloads. Each record opens
// with the mandatory timekeeping TAL; events whose onset falls inside the
// record follow. Events past the final record edge land in the last record.
func buildTALs(records int, recordDuration float64, annotations []Annotation) [][]byte {
	tals := make([][]byte, records)
	for rec := range tals {
		var b []byte
		b = append(b, formatOnset(float64(rec)*recordDuration)...)
		b = append(b, talSeparator, talSeparator, 0)
		tals[rec] = b
	}
	if records == 0 {
		return tals
	}

	for _, ann := range annotations {
		rec := int(ann.Onset / recordDuration)
		if rec < 0 {
			rec = 0
		}
		if rec >= records {
			rec = records - 1
		}

		b := tals[rec]
		b = append(b, formatOnset(ann.Onset)...)
		if ann.Duration > 0 {
			b = append(b, talDuration)
			b = append(b, strconv.FormatFloat(ann.Duration, 'f', -1, 64)...)
		}
		b = append(b, talSeparator)
		b = append(b, ann.Label...)
		b = append(b, talSeparator, 0)
		tals[rec] = b
	}
	return tals
}

// formatOnset renders an onset with its mandatory sign.
func formatOnset(onset float64) string {
	s := strconv.FormatFloat(onset, 'f', -1, 64)
	if onset >= 0 {
		return "+" + s
	}
	return s
}

func writeHeader(w *bufio.Writer, hdr *Header) error {
	writeField(w, 8, hdr.Version)
	writeField(w, 80, hdr.PatientID)
	writeField(w, 80, hdr.RecordingID)
	writeField(w, 8, hdr.StartDate)
	writeField(w, 8, hdr.StartTime)
	writeField(w, 8, strconv.Itoa(hdr.HeaderBytes))
	writeField(w, 44, hdr.Reserved)
	writeField(w, 8, strconv.Itoa(hdr.Records))
	writeField(w, 8, formatNumber(hdr.RecordDuration))
	writeField(w, 4, strconv.Itoa(hdr.SignalCount))

	for _, sh := range hdr.Signals {
		writeField(w, 16, sh.Label)
		writeField(w, 16, sh.Transducer)
		writeField(w, 8, sh.Units)
		writeField(w, 8, formatPhysical(sh.PhysicalMin))
		writeField(w, 8, formatPhysical(sh.PhysicalMax))
		writeField(w, 8, strconv.Itoa(sh.DigitalMin))
		writeField(w, 8, strconv.Itoa(sh.DigitalMax))
		writeField(w, 8, sh.Prefilter)
		writeField(w, 8, strconv.Itoa(sh.SamplesPerRecord))
		writeField(w, 168, "")
	}

	return nil
}

// writeField emits a left-aligned, space-padded ASCII field. Overlong
// values are cut at the field width so the fixed layout never shifts.
func writeField(w *bufio.Writer, width int, value string) {
	if len(value) > width {
		value = value[:width]
	}
	fmt.Fprintf(w, "%-*s", width, value)
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatPhysical fits a calibration bound into its 8-byte field, trading
// decimals for range the way the surrounding tooling does.
func formatPhysical(v float64) string {
	if math.IsNaN(v) {
		return "0"
	}
	s := fmt.Sprintf("%.2f", v)
	if len(s) > 8 {
		s = fmt.Sprintf("%.0f", v)
	}
	return s
}

// physicalToDigital inverts the channel calibration, clamping to the
// digital range.
func physicalToDigital(physical float64, sh SignalHeader) int16 {
	if sh.PhysicalMax == sh.PhysicalMin || math.IsNaN(sh.PhysicalMin) || math.IsNaN(sh.PhysicalMax) {
		return clampInt16(physical)
	}
	scale := float64(sh.DigitalMax-sh.DigitalMin) / (sh.PhysicalMax - sh.PhysicalMin)
	digital := (physical-sh.PhysicalMin)*scale + float64(sh.DigitalMin)
	if digital > float64(sh.DigitalMax) {
		digital = float64(sh.DigitalMax)
	}
	if digital < float64(sh.DigitalMin) {
		digital = float64(sh.DigitalMin)
	}
	return clampInt16(digital)
}

func clampInt16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(math.Round(v))
}
