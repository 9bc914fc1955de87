package sqls

import "strings"

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

//GetSQLSelectChannels returns the SQL statement retrieving the dictionary rows of n output names
func GetSQLSelectChannels(n int) string {

	sql :=
		`SELECT
    ReportDataDictionaryIndex,
    IFNULL(IndexGroup, ''),
    IFNULL(KeyValue, ''),
    Name,
    IFNULL(Units, ''),
    IFNULL(ReportingFrequency, '')
FROM
    ReportDataDictionary
WHERE
    Name IN (` + placeholders(n) + `)
ORDER BY
    ReportDataDictionaryIndex`

	return sql
}

//GetSQLSelectValues returns the SQL statement retrieving the values of n dictionary rows
func GetSQLSelectValues(n int) string {

	sql :=
		`SELECT
    Value,
    TimeIndex
FROM
    ReportData
WHERE
    ReportDataDictionaryIndex IN (` + placeholders(n) + `)
ORDER BY
    ReportDataIndex`

	return sql
}

//GetSQLSelectValuesForPeriod returns the SQL statement retrieving the values of n dictionary rows within one environment period
func GetSQLSelectValuesForPeriod(n int) string {

	sql :=
		`SELECT
    rd.Value,
    rd.TimeIndex
FROM
    ReportData rd
    INNER JOIN Time t ON t.TimeIndex = rd.TimeIndex
WHERE
        rd.ReportDataDictionaryIndex IN (` + placeholders(n) + `)
    AND t.EnvironmentPeriodIndex = ?
ORDER BY
    rd.ReportDataIndex`

	return sql
}

//GetSQLSelectTime returns the SQL statement retrieving one row of the Time table
func GetSQLSelectTime() string {

	sql :=
		`SELECT
    TimeIndex,
    IFNULL(Year, 0),
    IFNULL(Month, 0),
    IFNULL(Day, 0),
    IFNULL(Hour, 0),
    IFNULL(Minute, 0),
    IFNULL(Interval, 0),
    IFNULL(IntervalType, 0),
    IFNULL(EnvironmentPeriodIndex, 0)
FROM
    Time
WHERE
    TimeIndex = ?`

	return sql
}

//GetSQLSelectTabular returns the SQL statement retrieving the cells of a summary table
func GetSQLSelectTabular() string {

	sql :=
		`SELECT
    IFNULL(RowName, ''),
    IFNULL(ColumnName, ''),
    IFNULL(Units, ''),
    IFNULL(Value, '')
FROM
    TabularDataWithStrings
WHERE
    TableName = ?
ORDER BY
    TabularDataIndex`

	return sql
}

//GetSQLSelectAvailableOutputs returns the SQL statement listing every output name with its object type and units
func GetSQLSelectAvailableOutputs() string {

	sql :=
		`SELECT
    Name,
    IFNULL(IndexGroup, ''),
    IFNULL(Units, '')
FROM
    ReportDataDictionary
GROUP BY
    Name
ORDER BY
    MIN(ReportDataDictionaryIndex)`

	return sql
}

//GetSQLSelectEnvironmentPeriods returns the SQL statement listing the run periods of the simulation
func GetSQLSelectEnvironmentPeriods() string {

	sql :=
		`SELECT
    EnvironmentPeriodIndex,
    IFNULL(EnvironmentName, ''),
    IFNULL(EnvironmentType, 0)
FROM
    EnvironmentPeriods
ORDER BY
    EnvironmentPeriodIndex`

	return sql
}

//GetSQLSelectPeriodBounds returns the SQL statement retrieving the first and last time index of an environment period.
//Both bounds come from the rows of the finest reported interval type, HVAC timesteps left out.
func GetSQLSelectPeriodBounds() string {

	sql :=
		`SELECT
    MIN(TimeIndex),
    MAX(TimeIndex)
FROM
    Time
WHERE
    EnvironmentPeriodIndex = ?
    AND IntervalType = (
        SELECT
            MIN(IntervalType)
        FROM
            Time
        WHERE
            EnvironmentPeriodIndex = ?
            AND IntervalType >= 0)`

	return sql
}

//GetSQLSelectZoneSizes returns the SQL statement retrieving the zone sizes of a load type
func GetSQLSelectZoneSizes() string {

	sql :=
		`SELECT
    ZoneName,
    LoadType,
    IFNULL(CalcDesLoad, 0),
    IFNULL(UserDesLoad, 0),
    IFNULL(CalcDesFlow, 0),
    IFNULL(UserDesFlow, 0),
    IFNULL(DesDayName, ''),
    IFNULL(PeakHrMin, ''),
    IFNULL(PeakTemp, 0),
    IFNULL(PeakHumRat, 0),
    IFNULL(CalcOutsideAirFlow, 0)
FROM
    ZoneSizes
WHERE
    LoadType = ?
ORDER BY
    ZoneSizesIndex`

	return sql
}

//GetSQLSelectComponentSizes returns the SQL statement retrieving component sizes, all of them when the type argument is empty
func GetSQLSelectComponentSizes() string {

	sql :=
		`SELECT
    CompType,
    CompName,
    IFNULL(Description, ''),
    IFNULL(Value, 0),
    IFNULL(Units, '')
FROM
    ComponentSizes
WHERE
    ? = '' OR UPPER(CompType) = UPPER(?)
ORDER BY
    ComponentSizesIndex`

	return sql
}
