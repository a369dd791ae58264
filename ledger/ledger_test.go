package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	assert.True(t, isDuplicateKeyError(dup))

	other := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}},
	}
	assert.False(t, isDuplicateKeyError(other))

	assert.False(t, isDuplicateKeyError(nil))
	assert.False(t, isDuplicateKeyError(errors.New("network error")))
}
