package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	initLogger()
	Execute()
}

// initLogger настраивает zerolog: человекочитаемый вывод в консоль,
// уровень по умолчанию Info, --verbose переключает на Debug позже
func initLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	cw := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.RFC3339
	})

	log.Logger = zerolog.New(cw).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
