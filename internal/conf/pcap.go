package conf

import (
	"fmt"
	"slices"
)

const DefaultOutputPath = "network_capture.pcap"

// Output describes the capture file written at the end of a run.
type Output struct {
	Path       string `yaml:"path"`
	Format     string `yaml:"format"`
	Nanosecond bool   `yaml:"nanosecond"`
	Snaplen    int    `yaml:"snaplen"`
	Verify     bool   `yaml:"verify"`
}

func (o *Output) setDefaults() {
	if o.Path == "" {
		o.Path = DefaultOutputPath
	}
	if o.Format == "" {
		o.Format = "pcap"
	}
	if o.Snaplen == 0 {
		o.Snaplen = 65536
	}
}

func (o *Output) validate() []error {
	var errors []error

	validFormats := []string{"pcap", "pcapng"}
	if !slices.Contains(validFormats, o.Format) {
		errors = append(errors, fmt.Errorf("output format must be one of: %v", validFormats))
	}
	if o.Nanosecond && o.Format == "pcapng" {
		errors = append(errors, fmt.Errorf("output nanosecond applies to the pcap format only"))
	}
	if o.Snaplen < 64 || o.Snaplen > 262144 {
		errors = append(errors, fmt.Errorf("output snaplen must be between 64 and 262144"))
	}
	return errors
}
