package exercise

import "github.com/verte-zerg/tuitoeic/internal/model"

// Demo returns the built-in order confirmation exercise. Each call returns a fresh copy.
func Demo() model.Exercise {
	return model.Exercise{
		Passage: model.Passage{
			Title: "Order Confirmation #4592",
			Meta: []model.MetaItem{
				{Label: "Subject", Value: "Order Confirmation #4592"},
				{Label: "Date", Value: "November 22"},
				{Label: "To", Value: "Sarah Jenkins <s.jenkins@abccorp.com>"},
				{Label: "From", Value: "Office World <orders@officeworld.com>"},
			},
			Content: model.Content{
				model.Paragraph{Text: "Dear Ms. Jenkins,\n\nThank you for your recent order with Office World. We have received your request for the following items:"},
				model.Table{
					Headers: []string{"Item Description", "Quantity", "Unit Price", "Total"},
					Rows: [][]string{
						{"Black Ballpoint Pens (Box of 12)", "5", "$12.00", "$60.00"},
						{"A4 Printer Paper (500 sheets)", "10", "$8.50", "$85.00"},
						{"Sticky Notes (Pack of 5)", "3", "$4.00", "$12.00"},
					},
				},
				model.KVList{Items: []model.KVItem{
					{Label: "Subtotal", Value: "$157.00"},
					{Label: "Shipping", Value: "Free"},
					{Label: "Total", Value: "$157.00", Highlight: true},
				}},
				model.Paragraph{Text: "Your order is currently being processed and will be shipped within 24 hours. You can expect delivery by Tuesday, November 26."},
				model.Paragraph{Text: "Please note that if you wish to make any changes to this order, you must contact our customer service department at (555) 0199-2233 before 5:00 PM today."},
				model.Paragraph{Text: "Thank you for choosing Office World.\n\nSincerely,\nCustomer Service Team\nOffice World"},
			},
		},
		Questions: []model.Question{
			{
				ID:          7,
				Text:        "What is the purpose of this email?",
				Correct:     "B",
				Explanation: "件名が 'Order Confirmation'（注文確認）であり、冒頭で 'We have received your request'（リクエストを受領しました）と述べているため、購入リクエストの受領確認が目的です。",
				Options: []model.Option{
					{ID: "A", Text: "To request payment for an overdue bill"},
					{ID: "B", Text: "To confirm receipt of a purchase request"},
					{ID: "C", Text: "To announce a sale on office supplies"},
					{ID: "D", Text: "To complain about a delivery delay"},
				},
			},
			{
				ID:          8,
				Text:        "When will the items likely arrive?",
				Correct:     "D",
				Explanation: "本文中盤に 'You can expect delivery by Tuesday, November 26'（11月26日火曜日までの配達を予定しています）と明記されています。",
				Options: []model.Option{
					{ID: "A", Text: "Today"},
					{ID: "B", Text: "Tomorrow"},
					{ID: "C", Text: "November 22"},
					{ID: "D", Text: "November 26"},
				},
			},
			{
				ID:          9,
				Text:        "What is true about the shipping cost?",
				Correct:     "C",
				Explanation: "金額の内訳部分に 'Shipping: Free'（送料：無料）と記載されています。これは追加料金がかからないことを意味します。",
				Options: []model.Option{
					{ID: "A", Text: "It is $12.00"},
					{ID: "B", Text: "It depends on the weight"},
					{ID: "C", Text: "It is included at no extra charge"},
					{ID: "D", Text: "It will be calculated later"},
				},
			},
		},
	}
}
