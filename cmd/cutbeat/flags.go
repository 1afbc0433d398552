package main

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const defaultTick = 16 * time.Millisecond

type options struct {
	Script       string
	Tick         time.Duration
	MetricsAddr  string
	LogLevel     string
	Record       string
	MistakeEvery int
	SkipEvery    int
	Steps        int
}

func parseFlags(args []string) (options, error) {
	var o options
	cli := kingpin.New("cutbeat", "Play a swipe-direction rhythm chart against a gesture script.")
	cli.Version("0.1.0")
	cli.Flag("script", "YAML gesture script; an autoplay script is generated when empty").Short('s').ExistingFileVar(&o.Script)
	cli.Flag("tick", "Frame period of the judgment loop").Default(defaultTick.String()).Short('t').DurationVar(&o.Tick)
	cli.Flag("metrics-addr", "Serve Prometheus metrics on this address").StringVar(&o.MetricsAddr)
	cli.Flag("log-level", "Override the configured log level").Short('l').StringVar(&o.LogLevel)
	cli.Flag("record", "Write the replay log of the run to this JSON file").Short('r').StringVar(&o.Record)
	cli.Flag("mistake-every", "Autoplay: swipe every n-th note backwards").Default("0").IntVar(&o.MistakeEvery)
	cli.Flag("skip-every", "Autoplay: leave every n-th note unswiped").Default("0").IntVar(&o.SkipEvery)
	cli.Flag("steps", "Autoplay: samples per stroke").Default("4").IntVar(&o.Steps)

	if _, err := cli.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}
