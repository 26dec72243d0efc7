package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/orderbot/internal/cart"
	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/domain"
)

const (
	promptName      = "Please enter the customer name (optionally followed by @handle):"
	promptLocation  = "Please select the delivery location:"
	promptProducts  = "Select products and quantities:"
	promptMenu      = "What would you like to do?"
	promptNext      = "What would you like to do next?"
	msgWelcome      = "Welcome to the Order Management Bot!"
	msgNoOrder      = "There is no order in progress."
	msgCancelled    = "Operation cancelled."
	msgBadNumber    = "Please enter a valid positive number!"
	msgEmptyName    = "Customer name cannot be empty."
	msgEmptyCart    = "Cart is empty! Please select at least one product."
	msgUnknownInput = "Please use the buttons below."
	msgSaveFailed   = "Sorry, there was an error saving your order. Please try again."
	msgLoadFailed   = "Sorry, there was an error loading products. Please try again."
	msgNoOrders     = "No orders found."
	msgStatsFailed  = "Sorry, there was an error downloading statistics. Please try again."
	msgNoProducts   = "No products are available right now."
)

func cancelRow() []chat.Button {
	return []chat.Button{{Label: "Cancel", Data: chat.ActionCancel}}
}

func mainMenu(text string) chat.Message {
	return chat.Message{
		Text: text,
		Buttons: [][]chat.Button{
			{{Label: "+ Add New Order", Data: chat.ActionNewOrder}},
			{{Label: "Download Statistics", Data: chat.ActionExport}},
		},
	}
}

func namePrompt() chat.Message {
	return chat.Message{Text: promptName, Buttons: [][]chat.Button{cancelRow()}}
}

func locationMenu(locations domain.Locations) chat.Message {
	rows := make([][]chat.Button, 0, len(locations)+1)
	for _, l := range locations {
		rows = append(rows, []chat.Button{{Label: string(l), Data: chat.CallbackData(chat.ActionLocation, string(l))}})
	}
	rows = append(rows, cancelRow())
	return chat.Message{Text: promptLocation, Buttons: rows}
}

func productMenu(s *Session) chat.Message {
	var text strings.Builder
	if len(s.Catalog) == 0 {
		text.WriteString(msgNoProducts)
		text.WriteString("\n\n")
	}
	if !s.Cart.IsEmpty() {
		text.WriteString(cartSummary(s.Cart))
		text.WriteString("\n\n")
	}
	text.WriteString(promptProducts)

	rows := make([][]chat.Button, 0, len(s.Catalog)+2)
	for _, p := range s.Catalog {
		rows = append(rows, []chat.Button{
			{Label: fmt.Sprintf("%s - %s", p.Name, p.SellPrice.StringFixed(2)), Data: chat.ProductCallback(chat.ActionProduct, p.ID)},
			{Label: "-", Data: chat.ProductCallback(chat.ActionDec, p.ID)},
			{Label: strconv.Itoa(s.Cart.Quantity(p.ID)), Data: chat.ProductCallback(chat.ActionProduct, p.ID)},
			{Label: "+", Data: chat.ProductCallback(chat.ActionInc, p.ID)},
		})
	}

	confirm := "Confirm Order"
	if !s.Cart.IsEmpty() {
		confirm = fmt.Sprintf("Confirm Order (Total: %s)", s.Cart.Total().StringFixed(2))
	}
	rows = append(rows, []chat.Button{{Label: confirm, Data: chat.ActionConfirm}}, cancelRow())

	return chat.Message{Text: text.String(), Buttons: rows}
}

func quantityPrompt(p domain.Product) chat.Message {
	return chat.Message{
		Text:    fmt.Sprintf("Enter quantity for %s:", p.Name),
		Buttons: [][]chat.Button{cancelRow()},
	}
}

func lineText(l cart.Line) string {
	return fmt.Sprintf("• %s: %d x %s = %s", l.ProductName, l.Quantity, l.UnitPrice.StringFixed(2), l.Subtotal().StringFixed(2))
}

func cartSummary(c *cart.Cart) string {
	var b strings.Builder
	b.WriteString("Current cart:")
	for _, l := range c.Lines() {
		b.WriteString("\n")
		b.WriteString(lineText(l))
	}
	fmt.Fprintf(&b, "\n\nTotal: %s", c.Total().StringFixed(2))
	return b.String()
}

func confirmation(s *Session) string {
	var b strings.Builder
	b.WriteString("Order confirmed!\n\n")
	fmt.Fprintf(&b, "Customer: %s", s.Name)
	if s.Handle != "" {
		fmt.Fprintf(&b, " (%s)", s.Handle)
	}
	fmt.Fprintf(&b, "\nLocation: %s\n\nOrdered items:", s.Location)
	for _, l := range s.Cart.Lines() {
		b.WriteString("\n")
		b.WriteString(lineText(l))
	}
	fmt.Fprintf(&b, "\n\nTotal Order: %s", s.Cart.Total().StringFixed(2))
	return b.String()
}
