package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel 日志级别
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

func (l LogLevel) String() string {
	if l < DEBUG || l > ERROR {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel 解析级别名称，不区分大小写，未知名称返回INFO和false
func ParseLevel(level string) (LogLevel, bool) {
	for i, name := range levelNames {
		if strings.EqualFold(level, name) {
			return LogLevel(i), true
		}
	}
	return INFO, false
}

// GetLogLevelFromString 将字符串转换为日志级别
func GetLogLevelFromString(level string) LogLevel {
	l, _ := ParseLevel(level)
	return l
}

// Logger 按级别过滤后写入同一个输出
type Logger struct {
	level LogLevel
	out   *log.Logger
	mu    sync.Mutex
}

func newLogger(level LogLevel, output io.Writer) *Logger {
	return &Logger{level: level, out: log.New(output, "", log.LstdFlags)}
}

func (lg *Logger) emit(level LogLevel, msg string) {
	if lg == nil || level < lg.level {
		return
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.out.Output(3, levelNames[level]+": "+msg)
}

var defaultLogger *Logger

/**
 * Initialize the logging system
 * @param {string} level - Log level (debug/info/warn/error)
 * @param {string} path - Log file path, "console" or empty for stdout
 * @description
 * - Falls back to stdout when the log file cannot be opened
 * - Messages below the level are discarded
 * - An unknown level name means info, a warning is written once
 */
func InitLogger(level string, path string) {
	var output io.Writer = os.Stdout
	if path != "console" && path != "" {
		output = openLogFile(path)
	}
	InitLoggerWithWriter(level, output)
	if _, ok := ParseLevel(level); !ok && level != "" {
		Warnf("Unknown log level '%s', using %s", level, INFO)
	}
}

// InitLoggerWithWriter 使用指定输出初始化日志系统
func InitLoggerWithWriter(level string, output io.Writer) {
	defaultLogger = newLogger(GetLogLevelFromString(level), output)
}

// openLogFile 打开日志文件，失败时退回标准输出
func openLogFile(logPath string) io.Writer {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "create log directory failed: %v\n", err)
		return os.Stdout
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file failed: %v\n", err)
		return os.Stdout
	}
	return file
}

func Debug(v ...interface{}) { defaultLogger.emit(DEBUG, sprintln(v...)) }

func Debugf(format string, v ...interface{}) { defaultLogger.emit(DEBUG, fmt.Sprintf(format, v...)) }

func Info(v ...interface{}) { defaultLogger.emit(INFO, sprintln(v...)) }

func Infof(format string, v ...interface{}) { defaultLogger.emit(INFO, fmt.Sprintf(format, v...)) }

func Warn(v ...interface{}) { defaultLogger.emit(WARN, sprintln(v...)) }

func Warnf(format string, v ...interface{}) { defaultLogger.emit(WARN, fmt.Sprintf(format, v...)) }

func Error(v ...interface{}) { defaultLogger.emit(ERROR, sprintln(v...)) }

func Errorf(format string, v ...interface{}) { defaultLogger.emit(ERROR, fmt.Sprintf(format, v...)) }

// sprintln 与log.Println一致，参数之间总是加空格
func sprintln(v ...interface{}) string {
	s := fmt.Sprintln(v...)
	return s[:len(s)-1]
}
