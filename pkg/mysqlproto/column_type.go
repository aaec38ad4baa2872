package mysqlproto

import "strings"

// ColumnType is the MySQL field type byte carried by column definitions.
type ColumnType byte

const (
	MYSQL_TYPE_DECIMAL     = ColumnType(0x00)
	MYSQL_TYPE_TINY        = ColumnType(0x01)
	MYSQL_TYPE_SHORT       = ColumnType(0x02)
	MYSQL_TYPE_LONG        = ColumnType(0x03)
	MYSQL_TYPE_FLOAT       = ColumnType(0x04)
	MYSQL_TYPE_DOUBLE      = ColumnType(0x05)
	MYSQL_TYPE_NULL        = ColumnType(0x06)
	MYSQL_TYPE_TIMESTAMP   = ColumnType(0x07)
	MYSQL_TYPE_LONGLONG    = ColumnType(0x08)
	MYSQL_TYPE_INT24       = ColumnType(0x09)
	MYSQL_TYPE_DATE        = ColumnType(0x0a)
	MYSQL_TYPE_TIME        = ColumnType(0x0b)
	MYSQL_TYPE_DATETIME    = ColumnType(0x0c)
	MYSQL_TYPE_YEAR        = ColumnType(0x0d)
	MYSQL_TYPE_VARCHAR     = ColumnType(0x0f)
	MYSQL_TYPE_BIT         = ColumnType(0x10)
	MYSQL_TYPE_JSON        = ColumnType(0xf5)
	MYSQL_TYPE_NEWDECIMAL  = ColumnType(0xf6)
	MYSQL_TYPE_ENUM        = ColumnType(0xf7)
	MYSQL_TYPE_SET         = ColumnType(0xf8)
	MYSQL_TYPE_TINY_BLOB   = ColumnType(0xf9)
	MYSQL_TYPE_MEDIUM_BLOB = ColumnType(0xfa)
	MYSQL_TYPE_LONG_BLOB   = ColumnType(0xfb)
	MYSQL_TYPE_BLOB        = ColumnType(0xfc)
	MYSQL_TYPE_VAR_STRING  = ColumnType(0xfd)
	MYSQL_TYPE_STRING      = ColumnType(0xfe)
	MYSQL_TYPE_GEOMETRY    = ColumnType(0xff)
)

var databaseTypeNames = map[string]ColumnType{
	"DECIMAL":     MYSQL_TYPE_NEWDECIMAL,
	"NUMERIC":     MYSQL_TYPE_NEWDECIMAL,
	"TINYINT":     MYSQL_TYPE_TINY,
	"BOOL":        MYSQL_TYPE_TINY,
	"SMALLINT":    MYSQL_TYPE_SHORT,
	"INT2":        MYSQL_TYPE_SHORT,
	"MEDIUMINT":   MYSQL_TYPE_INT24,
	"INT":         MYSQL_TYPE_LONG,
	"INTEGER":     MYSQL_TYPE_LONG,
	"INT4":        MYSQL_TYPE_LONG,
	"BIGINT":      MYSQL_TYPE_LONGLONG,
	"INT8":        MYSQL_TYPE_LONGLONG,
	"FLOAT":       MYSQL_TYPE_FLOAT,
	"FLOAT4":      MYSQL_TYPE_FLOAT,
	"DOUBLE":      MYSQL_TYPE_DOUBLE,
	"FLOAT8":      MYSQL_TYPE_DOUBLE,
	"TIMESTAMP":   MYSQL_TYPE_TIMESTAMP,
	"TIMESTAMPTZ": MYSQL_TYPE_TIMESTAMP,
	"DATE":        MYSQL_TYPE_DATE,
	"TIME":        MYSQL_TYPE_TIME,
	"DATETIME":    MYSQL_TYPE_DATETIME,
	"YEAR":        MYSQL_TYPE_YEAR,
	"BIT":         MYSQL_TYPE_BIT,
	"JSON":        MYSQL_TYPE_JSON,
	"JSONB":       MYSQL_TYPE_JSON,
	"ENUM":        MYSQL_TYPE_ENUM,
	"SET":         MYSQL_TYPE_SET,
	"TINYBLOB":    MYSQL_TYPE_TINY_BLOB,
	"MEDIUMBLOB":  MYSQL_TYPE_MEDIUM_BLOB,
	"LONGBLOB":    MYSQL_TYPE_LONG_BLOB,
	"BLOB":        MYSQL_TYPE_BLOB,
	"BYTEA":       MYSQL_TYPE_BLOB,
	"TEXT":        MYSQL_TYPE_BLOB,
	"VARCHAR":     MYSQL_TYPE_VAR_STRING,
	"CHAR":        MYSQL_TYPE_STRING,
	"BPCHAR":      MYSQL_TYPE_STRING,
	"GEOMETRY":    MYSQL_TYPE_GEOMETRY,
}

// ColumnTypeByDatabaseTypeName maps a driver-reported type name
// (database/sql ColumnType.DatabaseTypeName) to a protocol column type.
// Unknown names are sent as VAR_STRING.
func ColumnTypeByDatabaseTypeName(name string) ColumnType {
	n := strings.ToUpper(name)
	n = strings.TrimPrefix(n, "UNSIGNED ")
	if t, ok := databaseTypeNames[n]; ok {
		return t
	}
	return MYSQL_TYPE_VAR_STRING
}
