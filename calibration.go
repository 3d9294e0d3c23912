package mcc134

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	serialSize  = 8
	calDateSize = 10
)

// Calibration holds the factory data of a board. Calibrated codes are
// computed as code*slope + offset.
type Calibration struct {
	Serial  string
	Date    string
	Slopes  [NumChannels]float64
	Offsets [NumChannels]float64
}

// DefaultCalibration is used for boards with a blank or corrupt EEPROM.
func DefaultCalibration() Calibration {
	c := Calibration{
		Serial: "00000000",
		Date:   "1970-01-01",
	}
	for i := range c.Slopes {
		c.Slopes[i] = 1.0
		c.Offsets[i] = 0.0
	}
	return c
}

var errCalibrationIncomplete = errors.New("mcc134: calibration data incomplete")

// ParseCalibration decodes the factory document stored in the board EEPROM:
//
//	{
//	    "serial": "01234567",
//	    "calibration": {
//	        "date": "2019-02-25",
//	        "slopes": [1.0, 1.0, 1.0, 1.0],
//	        "offsets": [0.0, 0.0, 0.0, 0.0]
//	    }
//	}
//
// All four fields are required. On any error the default calibration is
// returned along with the error, never a partially filled one.
func ParseCalibration(payload []byte) (Calibration, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return DefaultCalibration(), fmt.Errorf("mcc134: calibration: %v", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return DefaultCalibration(), errCalibrationIncomplete
	}

	c := DefaultCalibration()
	var gotSerial, gotDate, gotSlopes, gotOffsets bool
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		switch {
		case k.Value == "serial" && isString(v):
			c.Serial = truncate(v.Value, serialSize)
			gotSerial = true
		case k.Value == "calibration" && v.Kind == yaml.MappingNode:
			for j := 0; j+1 < len(v.Content); j += 2 {
				ck, cv := v.Content[j], v.Content[j+1]
				switch ck.Value {
				case "date":
					if isString(cv) {
						c.Date = truncate(cv.Value, calDateSize)
						gotDate = true
					}
				case "slopes":
					gotSlopes = numbers(cv, c.Slopes[:])
				case "offsets":
					gotOffsets = numbers(cv, c.Offsets[:])
				}
			}
		}
	}

	if !gotSerial || !gotDate || !gotSlopes || !gotOffsets {
		return DefaultCalibration(), errCalibrationIncomplete
	}
	return c, nil
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

// numbers fills dst from the numeric elements of a sequence and reports
// whether there were enough of them. Extra elements are ignored.
func numbers(n *yaml.Node, dst []float64) bool {
	if n.Kind != yaml.SequenceNode {
		return false
	}
	i := 0
	for _, e := range n.Content {
		if i == len(dst) {
			break
		}
		if e.Kind != yaml.ScalarNode {
			continue
		}
		if tag := e.ShortTag(); tag != "!!int" && tag != "!!float" {
			continue
		}
		if err := e.Decode(&dst[i]); err != nil {
			return false
		}
		i++
	}
	return i == len(dst)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// CalibrationSource supplies the raw factory document of a board.
type CalibrationSource interface {
	CustomData(addr uint8) ([]byte, error)
}

// FileSource reads the factory document from a file. The string is a
// format with one %d verb for the board address, for example
// "/etc/mcc/hats/mcc134_%d.json".
type FileSource string

func (f FileSource) CustomData(addr uint8) ([]byte, error) {
	return os.ReadFile(fmt.Sprintf(string(f), addr))
}

// loadCalibration never fails: a missing or unreadable document yields the
// default calibration.
func loadCalibration(src CalibrationSource, addr uint8, logf LogPrintf) Calibration {
	if src == nil {
		logf("address %d using factory EEPROM default values: no calibration source", addr)
		return DefaultCalibration()
	}
	data, err := src.CustomData(addr)
	if err == nil && len(data) == 0 {
		err = errors.New("empty EEPROM")
	}
	if err != nil {
		logf("address %d using factory EEPROM default values: %v", addr, err)
		return DefaultCalibration()
	}
	c, err := ParseCalibration(data)
	if err != nil {
		logf("address %d using factory EEPROM default values: %v", addr, err)
	}
	return c
}
