package mocks

import (
	"context"

	"github.com/sendgrid/sendgrid-go"
	sendGrid "github.com/shopsphere/marketplace-api/pkg/sendGrid"
	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, req *sendGrid.EmailRequest) error {
	args := m.Called(ctx, req)

	return args.Error(0)
}

func (m *EmailService) GetSendGridClient() *sendgrid.Client {
	args := m.Called()

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*sendgrid.Client)
}
