package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cafefcli/internal/tradedate"
)

func TestURLBuilder(t *testing.T) {
	b := NewURLBuilder("https://cafef1.mediacdn.vn/data/ami_data/", "CafeF")
	d := tradedate.New(2024, 3, 5)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "daily transactions",
			got:  b.Daily(Transactions, d),
			want: "https://cafef1.mediacdn.vn/data/ami_data/20240305/CafeF.SolieuGD.05032024.zip",
		},
		{
			name: "daily index",
			got:  b.Daily(Indices, d),
			want: "https://cafef1.mediacdn.vn/data/ami_data/20240305/CafeF.Index.05032024.zip",
		},
		{
			name: "cumulative transactions",
			got:  b.Upto(Transactions, d),
			want: "https://cafef1.mediacdn.vn/data/ami_data/20240305/CafeF.SolieuGD.Upto05032024.zip",
		},
		{
			name: "cumulative index",
			got:  b.Upto(Indices, d),
			want: "https://cafef1.mediacdn.vn/data/ami_data/20240305/CafeF.Index.Upto05032024.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Equal(t, "https://cafef1.mediacdn.vn/data/ami_data", b.Base())

	upto := b.UptoBundle(d)
	assert.Equal(t, d, upto.Date)
	assert.Equal(t, b.Upto(Transactions, d), upto.TransactionURL)
	assert.Equal(t, b.Upto(Indices, d), upto.IndexURL)

	daily := b.DailyBundle(d)
	assert.Equal(t, b.Daily(Indices, d), daily.IndexURL)
}
