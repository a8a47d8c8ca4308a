package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{name: "aws", want: "https://vitrine.s3.sa-east-1.amazonaws.com"},
		{name: "custom endpoint", endpoint: "http://localhost:9000/", want: "http://localhost:9000/vitrine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.endpoint, "vitrine", "sa-east-1"))
		})
	}
}

func TestURLJoinsKey(t *testing.T) {
	s := &S3{baseURL: "https://vitrine.s3.sa-east-1.amazonaws.com"}

	assert.Equal(t, "https://vitrine.s3.sa-east-1.amazonaws.com/products/2025/03/a.png", s.URL("/products/2025/03/a.png"))
}
