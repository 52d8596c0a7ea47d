package commands

import (
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"edfmark/internal/application"
	"edfmark/internal/config"
	"edfmark/internal/domain"
	"edfmark/internal/edf"
	"edfmark/internal/ports"
)

// markerLabel names the synthetic marker channel appended to converted files.
const markerLabel = "Marker"

// ConvertResult contains the result of a batch conversion run
type ConvertResult struct {
	RunID     string
	Outcomes  []domain.PairOutcome
	Succeeded int
	Total     int
}

// ConvertCommand walks the session directories and converts every
// EDF/spreadsheet pair to an annotated EDF+ file
type ConvertCommand struct {
	library ports.RecordingLibrary
	sheets  ports.EventSheet
	index   ports.RunIndex // optional; nil disables run recording
	opts    config.Options
}

// NewConvertCommand creates a new ConvertCommand
func NewConvertCommand(library ports.RecordingLibrary, sheets ports.EventSheet, index ports.RunIndex, opts config.Options) *ConvertCommand {
	return &ConvertCommand{
		library: library,
		sheets:  sheets,
		index:   index,
		opts:    opts,
	}
}

// Validate checks the run options
func (c *ConvertCommand) Validate() error {
	if c.library == nil {
		return &application.ValidationError{
			Field:   "library",
			Message: "recording library is required",
		}
	}
	if c.sheets == nil {
		return &application.ValidationError{
			Field:   "sheets",
			Message: "event sheet access is required",
		}
	}
	if c.opts.DriftThreshold <= 0 || c.opts.DriftThreshold > 1.0 {
		return &application.ValidationError{
			Field:   "driftThreshold",
			Message: fmt.Sprintf("must be in (0, 1.0], got %g", c.opts.DriftThreshold),
		}
	}
	return nil
}

// Execute runs the conversion over every session directory. Failures are
// recorded per pair and never abort the batch.
func (c *ConvertCommand) Execute(ctx context.Context) (*ConvertResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sessions, err := c.library.Sessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := &ConvertResult{RunID: uuid.NewString()}
	if c.index != nil {
		err := c.index.BeginRun(domain.RunSummary{
			ID:        result.RunID,
			Base:      c.library.Base(),
			StartedAt: time.Now(),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, dir := range sessions {
		pairs, unmatched, err := c.library.Pairs(dir)
		if err != nil {
			log.Printf("skipping %s: %v", dir, err)
			continue
		}
		for _, path := range unmatched {
			log.Printf("no date token in %s, skipping", filepath.Base(path))
		}

		dirSucceeded := 0
		for _, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			outcome := c.convertPair(pair)
			result.Outcomes = append(result.Outcomes, outcome)
			result.Total++
			if outcome.Status == domain.PairConverted {
				result.Succeeded++
				dirSucceeded++
				log.Printf("converted %s -> %s (%d events, %d excluded)",
					filepath.Base(pair.EDFPath), filepath.Base(outcome.OutputPath),
					outcome.Included, outcome.Excluded)
			}

			if c.index != nil {
				if err := c.index.RecordPair(result.RunID, outcome); err != nil {
					log.Printf("run index write failed: %v", err)
				}
			}
		}
		if len(pairs) > 0 {
			log.Printf("%s: %d/%d converted", dir, dirSucceeded, len(pairs))
		}
	}

	if c.index != nil {
		if err := c.index.FinishRun(result.RunID, result.Succeeded, result.Total); err != nil {
			log.Printf("run index write failed: %v", err)
		}
	}

	if result.Total == 0 {
		return result, application.ErrNoPairs
	}
	return result, nil
}

// convertPair runs the full pipeline for one EDF and its companion sheets.
func (c *ConvertCommand) convertPair(pair domain.FilePair) domain.PairOutcome {
	outcome := domain.PairOutcome{EDFPath: pair.EDFPath, DateKey: pair.DateKey}

	fail := func(stage string, err error) domain.PairOutcome {
		cerr := &application.ConversionError{Path: pair.EDFPath, Stage: stage, Err: err}
		log.Print(cerr)
		outcome.Status = domain.PairFailed
		outcome.Stage = stage
		outcome.Error = err.Error()
		return outcome
	}

	if len(pair.Sheets) == 0 {
		return fail("match", fmt.Errorf("no companion spreadsheet for date token %s", pair.DateKey))
	}

	hdr, data, err := edf.ReadFile(pair.EDFPath)
	if err != nil {
		return fail("read", err)
	}
	if strings.HasPrefix(hdr.Reserved, "EDF+") {
		log.Printf("skipping %s: already converted", filepath.Base(pair.EDFPath))
		outcome.Status = domain.PairSkipped
		outcome.Error = application.ErrAlreadyConverted.Error()
		return outcome
	}
	if len(hdr.Signals) == 0 {
		return fail("read", fmt.Errorf("file declares no signals"))
	}

	rate, defaulted := hdr.SampleRate(config.DefaultSampleRate)
	if defaulted {
		log.Printf("%s: no usable sampling rate in header, assuming %g Hz",
			filepath.Base(pair.EDFPath), rate)
	}

	start, err := domain.ParseEDFClockTime(hdr.StartTime)
	if err != nil {
		if c.opts.Reference == domain.RefEDFStart {
			return fail("header", err)
		}
		start = 0
	}

	labels := make([]string, len(hdr.Signals))
	for i, sh := range hdr.Signals {
		labels[i] = sh.Label
	}
	rec := &domain.Recording{
		Labels:       labels,
		Samples:      data,
		SampleRate:   rate,
		StartSeconds: start,
	}

	headerDuration := hdr.Duration()
	if math.IsNaN(headerDuration) || headerDuration <= 0 {
		log.Printf("%s: unusable record duration in header, skipping duration reconciliation",
			filepath.Base(pair.EDFPath))
	}
	recon := domain.Reconcile(rec, headerDuration, domain.ReconcileOptions{
		DriftThreshold: c.opts.DriftThreshold,
		Padding:        c.opts.Padding,
	})
	if recon.Changed() {
		log.Printf("%s: header/data duration mismatch of %.3fs, padded %d truncated %d",
			filepath.Base(pair.EDFPath), recon.Delta, recon.Padded, recon.Truncated)
	}

	var classified []domain.ClassifiedEvent
	var annotations []edf.Annotation
	updates := make(map[string][]ports.StatusUpdate, len(pair.Sheets))

	for _, sheetPath := range pair.Sheets {
		events, err := c.sheets.LoadEvents(sheetPath)
		if err != nil {
			return fail("events", err)
		}

		aligned := domain.AlignEvents(rec, events, domain.AlignOptions{
			Reference:    c.opts.Reference,
			EndTolerance: c.opts.EndTolerance,
		})
		classified = append(classified, aligned...)

		for i, ce := range aligned {
			updates[sheetPath] = append(updates[sheetPath], ports.StatusUpdate{
				Row:         events[i].Row,
				Status:      ce.Status,
				Relative:    ce.Relative,
				HasRelative: ce.Status != domain.StatusNoTime,
			})
			if ce.Status == domain.StatusIncluded {
				annotations = append(annotations, edf.Annotation{
					Onset: float64(ce.Latency-1) / rec.SampleRate,
					Label: ce.Label,
				})
			}
		}
	}

	for _, ce := range classified {
		if ce.Status == domain.StatusIncluded {
			outcome.Included++
		} else {
			outcome.Excluded++
		}
	}

	outHdr := *hdr
	outHdr.Signals = append([]edf.SignalHeader{}, hdr.Signals...)
	samples := rec.Samples
	if c.opts.MarkerCodes != nil {
		samples = append(samples, domain.BuildMarkerChannel(rec.SampleCount(), classified, c.opts.MarkerCodes))
		outHdr.Signals = append(outHdr.Signals, edf.SignalHeader{
			Label:            markerLabel,
			PhysicalMin:      -32768,
			PhysicalMax:      32767,
			DigitalMin:       -32768,
			DigitalMax:       32767,
			SamplesPerRecord: hdr.Signals[0].SamplesPerRecord,
		})
	}

	token, err := hdr.TimestampToken()
	if err != nil {
		return fail("name", err)
	}
	finalStem := patientToken(hdr.PatientID, pair.EDFPath) + "_" + token
	outputPath := filepath.Join(filepath.Dir(pair.EDFPath), finalStem+".edf")

	if _, err := c.library.Backup(pair.EDFPath, finalStem); err != nil {
		return fail("backup", err)
	}

	if err := edf.WriteFile(outputPath, &outHdr, samples, annotations); err != nil {
		return fail("write", err)
	}

	for sheetPath, u := range updates {
		if err := c.sheets.WriteStatuses(sheetPath, u); err != nil {
			return fail("status", err)
		}
	}

	outcome.Status = domain.PairConverted
	outcome.OutputPath = outputPath
	return outcome
}

var leadingDigits = regexp.MustCompile(`^\d+`)

// patientToken derives the patient identifier for the output filename from
// the header patient field, falling back to the source filename.
func patientToken(patientID, edfPath string) string {
	if m := leadingDigits.FindString(strings.TrimSpace(patientID)); m != "" {
		return m
	}
	stem := strings.TrimSuffix(filepath.Base(edfPath), filepath.Ext(edfPath))
	if m := leadingDigits.FindString(stem); m != "" {
		return m
	}
	return stem
}
