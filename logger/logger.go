package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"eplus-sqlresult/config"

	log "github.com/sirupsen/logrus"
)

var (
	mutexLogging sync.Mutex
	lineCounter  = 0
)

type Impl struct {
	LogFile        *os.File
	FileName       string
	MaxLogfileSize int64
}

type Logger interface {
	Fatal(err error)
	Error(logMessage error)
	ErrorWithText(logMessage string)
	Info(logMessage string)
	Debug(logMessage string)
	replaceLogFile() error
	logFileIsTooLarge() bool

	Close()
}

// NewLogger points logrus at fileName. When the file cannot be opened the
// returned logger keeps writing to stderr and the error is returned alongside it.
var NewLogger = func(fileName string, maxLogfileSize int64) (Logger, error) {
	log.SetFormatter(&log.TextFormatter{QuoteEmptyFields: true, FullTimestamp: true})
	log.SetReportCaller(true)
	log.SetLevel(log.InfoLevel)

	impl := &Impl{FileName: fileName, MaxLogfileSize: maxLogfileSize}
	if fileName == "" {
		log.SetOutput(os.Stderr)
		return impl, nil
	}

	err := os.MkdirAll(filepath.Dir(fileName), 0755)
	if err == nil {
		impl.LogFile, err = os.OpenFile(fileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	}
	if err != nil {
		// Cannot open log file. Logging to stderr
		log.SetOutput(os.Stderr)
		return impl, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, impl.LogFile))
	return impl, nil
}

func (i *Impl) ErrorWithText(logMessage string) {
	i.write(func() { log.Error(logMessage) })
}

func (i *Impl) Error(err error) {
	i.write(func() { log.Error(err) })
}

func (i *Impl) Info(logMessage string) {
	i.write(func() { log.Info(logMessage) })
}

func (i *Impl) Debug(logMessage string) {
	i.write(func() { log.Debug(logMessage) })
}

func (i *Impl) Fatal(err error) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	log.Fatal(err)
}

func (i *Impl) write(emit func()) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	emit()
	if i.logFileIsTooLarge() {
		err := i.replaceLogFile()
		if err != nil {
			log.Error(err)
			return
		}
	}
}

func (i *Impl) replaceLogFile() error {

	log.Info("Archiving existing log file")

	// Replace the log file
	err := i.LogFile.Close()
	if err != nil {
		return err
	}
	newFileName := config.GetLogFileNameWithoutExtension(i.FileName) + "_" + time.Now().Format(config.GetFileDateLayout()) + "." + config.GetLogFileExtension()
	err = os.Rename(i.FileName, newFileName)
	if err != nil {
		i.LogFile, err = os.OpenFile(i.FileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		return err
	}
	// Create a new file
	i.LogFile, err = os.OpenFile(i.FileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, i.LogFile))
	return nil
}

func (i *Impl) logFileIsTooLarge() bool {
	if i.LogFile == nil || lineCounter < 100 {
		return false
	}
	lineCounter = 0

	fileInfo, err := os.Stat(i.LogFile.Name())
	if err != nil {
		log.Error("Error:", err)
		return false
	}
	return fileInfo.Size()/(1024*1024) >= i.MaxLogfileSize
}

func (i *Impl) Close() {
	if i.LogFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	i.LogFile.Close()
}
