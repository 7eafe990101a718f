// Command magna-gps attaches post-processed receiver coordinates to
// Magnaprobe snow-depth records by nearest-timestamp matching.
//
//	magna-gps -m magnaprobe.dat -p emlid.pos -n corrected.csv -c PPK_correction
package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/align"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/config"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/emlid"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/magna"
)

func main() {
	var (
		fileMagna  = flag.StringP("filemagna", "m", "", "Magnaprobe data file to correct")
		filePos    = flag.StringP("filepos", "p", "", "receiver position (.pos) file")
		newFile    = flag.StringP("newfile", "n", "", "output CSV for the corrected data")
		correction = flag.StringP("correction", "c", "", "correction mode: PPK_correction or PPP_correction")
		configPath = flag.String("config", "", "optional YAML run config")
		leapFlag   = flag.Int("leap-seconds", -1, "override the GPS-UTC leap offset (seconds)")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *fileMagna == "" || *filePos == "" || *newFile == "" || *correction == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Mode validation happens before any file is touched.
	dialect, err := emlid.ParseDialect(*correction)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	leap := time.Duration(cfg.LeapSeconds) * time.Second
	if *leapFlag >= 0 {
		leap = time.Duration(*leapFlag) * time.Second
	}

	track, err := emlid.ReadTrackFile(*filePos, dialect)
	if err != nil {
		log.WithError(err).Fatal("reading position file")
	}
	first, last := track.Window()
	log.WithFields(logrus.Fields{
		"fixes":   track.Len(),
		"dialect": dialect.String(),
		"from":    first,
		"to":      last,
	}).Info("position track loaded")

	f, err := magna.ReadFile(*fileMagna, leap)
	if err != nil {
		log.WithError(err).Fatal("reading Magnaprobe file")
	}
	log.WithFields(logrus.Fields{"records": len(f.Rows), "leap_seconds": int(leap / time.Second)}).Info("measurements loaded")

	matches, sum := align.Run(track, f.Measurements())

	if err := magna.WriteCSVFile(*newFile, f, matches); err != nil {
		log.WithError(err).Fatal("writing corrected file")
	}

	reportSummary(log, sum)
	log.WithField("file", *newFile).Info("corrected file written")
	if sum.Matched == 0 {
		log.Error("no record could be matched")
		os.Exit(1)
	}
}

func reportSummary(log *logrus.Logger, sum align.Summary) {
	for _, s := range sum.Skips {
		log.WithFields(logrus.Fields{"record": s.Key, "reason": s.Reason.Error()}).Warn("record skipped")
	}
	log.WithFields(logrus.Fields{"matched": sum.Matched, "skipped": sum.Skipped}).Info("alignment complete")
}
