package edf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
)

// ReadHeaderFile parses just the header of an EDF file.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	defer f.Close()

	hdr, err := ParseHeader(bufio.NewReader(f))
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	return hdr, nil
}

// ReadFile parses an EDF file and decodes the full sample matrix to
// physical values, channel-major. A truncated data section is not an error:
// decoding stops at the last complete record and the caller reconciles the
// shortfall against the header-declared duration.
func ReadFile(path string) (*Header, [][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &HeaderError{Path: path, Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	hdr, err := ParseHeader(r)
	if err != nil {
		return nil, nil, &HeaderError{Path: path, Err: err}
	}

	data := make([][]float64, hdr.SignalCount)
	for i := range data {
		data[i] = make([]float64, 0, hdr.Records*hdr.Signals[i].SamplesPerRecord)
	}

	buf := make([]byte, maxRecordBytes(hdr))
records:
	for rec := 0; rec < hdr.Records; rec++ {
		for sig := 0; sig < hdr.SignalCount; sig++ {
			n := hdr.Signals[sig].SamplesPerRecord * 2
			if n == 0 {
				continue
			}
			if _, err := io.ReadFull(r, buf[:n]); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					// Drop the partial record; every channel keeps
					// the same number of complete records.
					for i := 0; i <= sig; i++ {
						spr := hdr.Signals[i].SamplesPerRecord
						if len(data[i]) > rec*spr {
							data[i] = data[i][:rec*spr]
						}
					}
					break records
				}
				return nil, nil, &HeaderError{Path: path, Err: err}
			}
			sh := hdr.Signals[sig]
			for s := 0; s < sh.SamplesPerRecord; s++ {
				digital := int16(binary.LittleEndian.Uint16(buf[s*2:]))
				data[sig] = append(data[sig], digitalToPhysical(digital, sh))
			}
		}
	}

	return hdr, data, nil
}

func maxRecordBytes(hdr *Header) int {
	max := 2
	for _, sh := range hdr.Signals {
		if n := sh.SamplesPerRecord * 2; n > max {
			max = n
		}
	}
	return max
}

// digitalToPhysical applies the channel calibration. Channels with a
// degenerate digital range, or unparsed physical bounds, pass the digital
// value through unscaled.
func digitalToPhysical(digital int16, sh SignalHeader) float64 {
	if sh.DigitalMax == sh.DigitalMin {
		return float64(digital)
	}
	if math.IsNaN(sh.PhysicalMin) || math.IsNaN(sh.PhysicalMax) || sh.PhysicalMax == sh.PhysicalMin {
		return float64(digital)
	}
	scale := (sh.PhysicalMax - sh.PhysicalMin) / float64(sh.DigitalMax-sh.DigitalMin)
	return sh.PhysicalMin + (float64(digital)-float64(sh.DigitalMin))*scale
}
