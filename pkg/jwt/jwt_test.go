package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/equipamentos-api/pkg/jwt"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	opts := pkgjwt.Options{Secret: "secret", Issuer: "https://auth.local", Audience: "authenticated", Expiration: time.Minute}
	tok, err := pkgjwt.Generate(opts, testUserID, "ana@example.com")
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(opts, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestParse_Rechazos(t *testing.T) {
	opts := pkgjwt.Options{Secret: "secret", Audience: "authenticated"}
	tok, err := pkgjwt.Generate(opts, testUserID, "")
	require.NoError(t, err)

	_, err = pkgjwt.Parse(pkgjwt.Options{Secret: "otro", Audience: "authenticated"}, tok)
	assert.Error(t, err, "firma incorrecta")

	_, err = pkgjwt.Parse(pkgjwt.Options{Secret: "secret", Audience: "service_role"}, tok)
	assert.Error(t, err, "audience distinta")

	_, err = pkgjwt.Parse(opts, "no.es.jwt")
	assert.Error(t, err)

	_, err = pkgjwt.Parse(pkgjwt.Options{}, tok)
	assert.Error(t, err)
}
