// Package entities describes the nine record types of the console and
// builds the console pages over the REST API.
package entities

import (
	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
)

// NewPages builds the twelve pages of one session.
func NewPages(client *apiclient.Client, chrome *console.Chrome) console.Pages {
	notify := chrome.Notify
	consumers := apiclient.NewResource[model.Consumer](client, "consumers")
	documents := apiclient.NewResource[model.Document](client, "documents")
	return console.Pages{
		Dashboard: console.NewDashboardPage(client),
		Bookings:  console.NewCRUDPage(Booking(), apiclient.NewResource[model.Booking](client, "bookings"), notify),
		Vehicles:  console.NewCRUDPage(Vehicle(), apiclient.NewResource[model.Vehicle](client, "vehicles"), notify),
		Consumers: console.NewCRUDPage(Consumer(consumers), consumers, notify),
		Payments:  console.NewCRUDPage(Payment(), apiclient.NewResource[model.Payment](client, "payments"), notify),
		Expenses:  console.NewCRUDPage(Expense(), apiclient.NewResource[model.Expense](client, "expenses"), notify),
		Vendors:   console.NewCRUDPage(Vendor(), apiclient.NewResource[model.Vendor](client, "vendors"), notify),
		Team:      console.NewCRUDPage(Team(), apiclient.NewResource[service.CreateMemberRequest](client, "team"), notify),
		Rates:     console.NewCRUDPage(Rate(), apiclient.NewResource[model.RateCard](client, "rates"), notify),
		Documents: console.NewCRUDPage(Document(documents), documents, notify),
		Chat:      console.NewChatPage(client),
		Reports:   console.NewReportsPage(client),
	}
}
