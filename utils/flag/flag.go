/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/
package flag

import (
	"flag"
)

const (
	PipelineMonitor = "pipeline_monitor"
)

var (
	IsDevelopment bool
	ServiceName   *string
	AppConfigPath *string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	ServiceName = flag.String("service", PipelineMonitor, "name of the running service, used in log fields")
	AppConfigPath = flag.String("app_config_path", "cmd/monitor/config.yaml", "path to the app config yaml")
}
