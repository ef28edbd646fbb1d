package export

import (
	"fmt"
	"regexp"
	"time"
)

const (
	filenamePrefix = "orders-export-"
	filenameExt    = ".csv"
	stampLayout    = "2006-01-02-15-04-05"
)

var filenameRe = regexp.MustCompile(`^orders-export-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}(-\d+)?\.csv$`)

// Filename — имя файла выгрузки по времени (точность — секунда).
// attempt > 0 добавляет суффикс -N после коллизии имён.
func Filename(now time.Time, attempt int) string {
	stamp := now.UTC().Format(stampLayout)
	if attempt <= 0 {
		return filenamePrefix + stamp + filenameExt
	}
	return fmt.Sprintf("%s%s-%d%s", filenamePrefix, stamp, attempt, filenameExt)
}

// IsExportFilename — имя соответствует шаблону файлов выгрузки.
func IsExportFilename(name string) bool {
	return filenameRe.MatchString(name)
}
