package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt64Array_RoundTripFormats(t *testing.T) {
	req := require.New(t)

	v, err := Int64Array{1, 22, 333}.Value()
	req.NoError(err)
	req.Equal("{1,22,333}", v)

	var a Int64Array
	req.NoError(a.Scan([]byte("{4,5}")))
	req.Equal(Int64Array{4, 5}, a)

	req.NoError(a.Scan("[6,7]"))
	req.Equal(Int64Array{6, 7}, a)

	req.NoError(a.Scan("{}"))
	req.Empty(a)

	req.Error(a.Scan("{x}"))
	req.Error(a.Scan(12))
}

func TestStringArray_QuotedElements(t *testing.T) {
	req := require.New(t)

	v, err := StringArray{"/files/1/a.png", `say "hi", ok`}.Value()
	req.NoError(err)
	req.Equal(`{"/files/1/a.png","say \"hi\", ok"}`, v)

	var a StringArray
	req.NoError(a.Scan(v))
	req.Equal(StringArray{"/files/1/a.png", `say "hi", ok`}, a)

	req.NoError(a.Scan(`["x","y"]`))
	req.Equal(StringArray{"x", "y"}, a)

	req.NoError(a.Scan(nil))
	req.Nil(a)
}

func TestConfigDSN(t *testing.T) {
	req := require.New(t)

	cfg := Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "chat"}
	dsn, err := cfg.DSN()
	req.NoError(err)
	req.Equal("host=db port=5432 user=u password=p dbname=chat sslmode=disable", dsn)

	_, err = (&Config{Driver: "oracle"}).DSN()
	req.Error(err)
}
