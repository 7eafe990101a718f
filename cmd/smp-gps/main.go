// Command smp-gps attaches post-processed receiver coordinates to Snow Micro
// Penetrometer profiles. Profiles are first joined against the manual
// measurement workbook by filename, then matched to the receiver track by
// nearest timestamp; the corrected workbook is written alongside the input.
//
//	smp-gps -d ./profiles -p emlid.pos -e records.xlsx -c PPP_correction
package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/align"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/config"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/emlid"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/smp"
)

func main() {
	var (
		dir        = flag.StringP("dir", "d", "", "directory of SMP .pnt profiles")
		filePos    = flag.StringP("filepos", "p", "", "receiver position (.pos) file")
		excelPath  = flag.StringP("excel", "e", "", "workbook of SMP measurement records")
		correction = flag.StringP("correction", "c", "", "correction mode: PPK_correction or PPP_correction")
		configPath = flag.String("config", "", "optional YAML run config")
		leapFlag   = flag.Int("leap-seconds", -1, "override the GPS-UTC leap offset (seconds)")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *dir == "" || *filePos == "" || *excelPath == "" || *correction == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	profiles, err := smp.ScanDir(*dir, leap)
	if err != nil {
		log.WithError(err).Fatal("reading profiles")
	}
	meta, err := smp.ReadMetadata(*excelPath, cfg.Sheet)
	if err != nil {
		log.WithError(err).Fatal("reading measurement workbook")
	}
	log.WithFields(logrus.Fields{"profiles": len(profiles), "records": len(meta.Rows)}).Info("measurements loaded")

	joined, missing := smp.Join(meta, profiles)
	matches, sum := align.Run(track, smp.Measurements(joined))
	for _, file := range missing {
		sum.AddSkip(file, smp.ErrUnjoinableRecord)
	}

	outPath := smp.ImprovedPath(*excelPath, cfg.OutputSuffix)
	if err := smp.WriteImproved(outPath, meta.Header, joined, matches); err != nil {
		log.WithError(err).Fatal("writing corrected workbook")
	}

	reportSummary(log, sum)
	log.WithField("file", outPath).Info("corrected workbook written")
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
